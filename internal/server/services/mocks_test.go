package services

import (
	"context"
	"time"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/models"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	nextId int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextId: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, common.ErrDuplicateUsername
		}
	}
	user.Id = r.nextId
	r.nextId++
	cp := *user
	r.users[user.Id] = &cp
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetById(ctx context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	stored, ok := r.users[user.Id]
	if !ok {
		return common.ErrNotFound
	}
	stored.Name = user.Name
	stored.Avatar = user.Avatar
	stored.Bio = user.Bio
	return nil
}

type fakeSessionRepo struct {
	ids map[int]string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{ids: make(map[int]string)}
}

func (r *fakeSessionRepo) Set(ctx context.Context, userId int, uniqueId string, ttl time.Duration) error {
	r.ids[userId] = uniqueId
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, userId int) (string, error) {
	id, ok := r.ids[userId]
	if !ok {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (r *fakeSessionRepo) Del(ctx context.Context, userId int) error {
	delete(r.ids, userId)
	return nil
}

type fakePostRepo struct {
	nextId     int
	posts      map[int]*models.Post
	categories map[int]*models.Category
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		nextId: 1,
		posts:  make(map[int]*models.Post),
		categories: map[int]*models.Category{
			1: {Id: 1, Name: "General", Slug: "general"},
			2: {Id: 2, Name: "Go", Slug: "go"},
		},
	}
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return nil, common.ErrDuplicateTitle
		}
	}
	post.Id = r.nextId
	r.nextId++
	cp := *post
	r.posts[post.Id] = &cp
	return post, nil
}

func (r *fakePostRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakePostRepo) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	var out []models.Post
	for _, p := range r.posts {
		out = append(out, *p)
	}
	return out, 0, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	stored, ok := r.posts[post.Id]
	if !ok {
		return common.ErrNotFound
	}
	*stored = *post
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) GetCategoryById(ctx context.Context, id int) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakePostRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}
