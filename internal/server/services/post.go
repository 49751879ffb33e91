package services

import (
	"context"

	"github.com/gosimple/slug"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/repositories/posts"
)

type Posts interface {
	Create(ctx context.Context, authId int, input models.PostCreateInput) (*models.Post, error)
	Get(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error)
	Update(ctx context.Context, authId int, urlSlug string, input models.PostUpdateInput) (*models.Post, error)
	Delete(ctx context.Context, authId int, urlSlug string) error
	Categories(ctx context.Context) ([]models.Category, error)
}

type PostService struct {
	posts posts.Repository
}

func NewPostService(pr posts.Repository) *PostService {
	return &PostService{posts: pr}
}

// defaultCategoryId is the seeded General category posts fall into when the
// client sends no category.
const defaultCategoryId = 1

// Create mints the slug from the title server-side; clients never supply one.
func (s *PostService) Create(ctx context.Context, authId int, input models.PostCreateInput) (*models.Post, error) {
	if input.CategoryId == 0 {
		input.CategoryId = defaultCategoryId
	}

	category, err := s.posts.GetCategoryById(ctx, input.CategoryId)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserId:     authId,
		Title:      input.Title,
		Slug:       slug.Make(input.Title),
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		CategoryId: input.CategoryId,
	}

	post, err = s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	post.Category = *category
	return post, nil
}

func (s *PostService) Get(ctx context.Context, slug string) (*models.Post, error) {
	return s.posts.GetBySlug(ctx, slug)
}

func (s *PostService) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	return s.posts.List(ctx, filters)
}

// Update re-slugs from the new title. Only the owner may edit.
func (s *PostService) Update(ctx context.Context, authId int, urlSlug string, input models.PostUpdateInput) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, urlSlug)
	if err != nil {
		return nil, err
	}

	if post.UserId != authId {
		return nil, common.ErrUnauthorized
	}

	if input.CategoryId == 0 {
		input.CategoryId = post.CategoryId
	}

	category, err := s.posts.GetCategoryById(ctx, input.CategoryId)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Slug = slug.Make(input.Title)
	post.Excerpt = input.Excerpt
	post.Content = input.Content
	post.CategoryId = input.CategoryId

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	post.Category = *category
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, authId int, urlSlug string) error {
	post, err := s.posts.GetBySlug(ctx, urlSlug)
	if err != nil {
		return err
	}

	if post.UserId != authId {
		return common.ErrUnauthorized
	}

	return s.posts.Delete(ctx, post.Id)
}

func (s *PostService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.posts.GetCategories(ctx)
}
