package posts

import (
	"context"

	"github.com/scribe-blog/scribe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	// List returns one page of posts plus the cursor of the next page,
	// 0 when this was the last one.
	List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	GetCategoryById(ctx context.Context, id int) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
}
