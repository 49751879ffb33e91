// Package posts implements the post repository on Postgres. Listing uses
// keyset pagination on the post id instead of offsets, so a page stays stable
// while new posts arrive.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/dbx"
	"github.com/scribe-blog/scribe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (user_id, title, slug, excerpt, content, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.UserId, post.Title, post.Slug, post.Excerpt, post.Content, post.CategoryId).
		Scan(&post.Id, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const postSelect = `
	SELECT p.id, p.user_id, p.title, p.slug, p.excerpt, p.content, p.category_id,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.slug,
	       u.id, u.username, u.name, u.avatar
	FROM posts p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.user_id
`

func scanPost(scan func(dest ...any) error) (*models.Post, error) {
	post := &models.Post{}
	err := scan(&post.Id, &post.UserId, &post.Title, &post.Slug, &post.Excerpt,
		&post.Content, &post.CategoryId, &post.CreatedAt, &post.UpdatedAt,
		&post.Category.Id, &post.Category.Name, &post.Category.Slug,
		&post.User.Id, &post.User.Username, &post.User.Name, &post.User.Avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = $1`, slug)
	return scanPost(row.Scan)
}

func (r *PostgresRepository) List(ctx context.Context, filters models.PostFilters) ([]models.Post, int, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	asc := filters.Order == "asc"

	if filters.Cursor > 0 {
		if asc {
			conds = append(conds, "p.id > "+arg(filters.Cursor))
		} else {
			conds = append(conds, "p.id < "+arg(filters.Cursor))
		}
	}
	if filters.Username != "" {
		conds = append(conds, "u.username = "+arg(filters.Username))
	}
	if filters.Category != "" {
		conds = append(conds, "c.slug = "+arg(filters.Category))
	}

	query := postSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if asc {
		query += " ORDER BY p.id ASC"
	} else {
		query += " ORDER BY p.id DESC"
	}

	limit := filters.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	// One extra row tells us whether another page exists.
	query += " LIMIT " + arg(limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	nextCursor := 0
	if len(posts) > limit {
		posts = posts[:limit]
		nextCursor = posts[len(posts)-1].Id
	}

	return posts, nextCursor, nil
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	query :=
		`UPDATE posts
		 SET title = $1, slug = $2, excerpt = $3, content = $4, category_id = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, post.Content, post.CategoryId, post.Id).
		Scan(&post.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrDuplicateTitle
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetCategoryById(ctx context.Context, id int) (*models.Category, error) {
	category := &models.Category{}

	err := r.db.QueryRowContext(ctx, `SELECT id, name, slug FROM categories WHERE id = $1`, id).
		Scan(&category.Id, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
