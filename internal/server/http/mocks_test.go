package http

import (
	"context"
	"io"

	"github.com/scribe-blog/scribe/internal/server/models"
)

type fakeAuth struct {
	registerFn func(ctx context.Context, input models.RegisterInput) (*models.User, error)
	loginFn    func(ctx context.Context, input models.LoginInput) (*models.User, string, string, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*models.User, string, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
}

func (f *fakeAuth) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	return f.registerFn(ctx, input)
}

func (f *fakeAuth) Login(ctx context.Context, input models.LoginInput) (*models.User, string, string, error) {
	return f.loginFn(ctx, input)
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*models.User, string, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAuth) Logout(ctx context.Context, refreshToken string) error {
	return f.logoutFn(ctx, refreshToken)
}

type fakeUsers struct {
	getFn           func(ctx context.Context, username string) (*models.User, error)
	checkUsernameFn func(ctx context.Context, username string) (bool, error)
	updateProfileFn func(ctx context.Context, authId int, username string, input models.ProfileUpdateInput, avatar io.ReadSeeker) (*models.User, error)
}

func (f *fakeUsers) Get(ctx context.Context, username string) (*models.User, error) {
	return f.getFn(ctx, username)
}

func (f *fakeUsers) CheckUsername(ctx context.Context, username string) (bool, error) {
	return f.checkUsernameFn(ctx, username)
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, authId int, username string, input models.ProfileUpdateInput, avatar io.ReadSeeker) (*models.User, error) {
	return f.updateProfileFn(ctx, authId, username, input, avatar)
}

type fakePosts struct {
	createFn     func(ctx context.Context, authId int, input models.PostCreateInput) (*models.Post, error)
	getFn        func(ctx context.Context, slug string) (*models.Post, error)
	listFn       func(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error)
	updateFn     func(ctx context.Context, authId int, urlSlug string, input models.PostUpdateInput) (*models.Post, error)
	deleteFn     func(ctx context.Context, authId int, urlSlug string) error
	categoriesFn func(ctx context.Context) ([]models.Category, error)
}

func (f *fakePosts) Create(ctx context.Context, authId int, input models.PostCreateInput) (*models.Post, error) {
	return f.createFn(ctx, authId, input)
}

func (f *fakePosts) Get(ctx context.Context, slug string) (*models.Post, error) {
	return f.getFn(ctx, slug)
}

func (f *fakePosts) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	return f.listFn(ctx, filters)
}

func (f *fakePosts) Update(ctx context.Context, authId int, urlSlug string, input models.PostUpdateInput) (*models.Post, error) {
	return f.updateFn(ctx, authId, urlSlug, input)
}

func (f *fakePosts) Delete(ctx context.Context, authId int, urlSlug string) error {
	return f.deleteFn(ctx, authId, urlSlug)
}

func (f *fakePosts) Categories(ctx context.Context) ([]models.Category, error) {
	return f.categoriesFn(ctx)
}
