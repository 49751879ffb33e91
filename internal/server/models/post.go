package models

import "time"

type Post struct {
	Id         int       `json:"id"`
	UserId     int       `json:"user_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	CategoryId int       `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Category   Category  `json:"category"`
	User       User      `json:"user"`
}

type Category struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PostCreateInput struct {
	Title      string `json:"title" validate:"required,max=100,excludesall=~%^;'<>"`
	Excerpt    string `json:"excerpt" validate:"max=255"`
	Content    string `json:"content" validate:"required"`
	CategoryId int    `json:"category_id"`
}

type PostUpdateInput struct {
	Title      string `json:"title" validate:"required,max=100,excludesall=~%^;'<>"`
	Excerpt    string `json:"excerpt" validate:"max=255"`
	Content    string `json:"content" validate:"required"`
	CategoryId int    `json:"category_id"`
}

// PostFilters narrow the post listing. Cursor is the id of the last post the
// client has seen; 0 means the newest page.
type PostFilters struct {
	Order    string
	Category string
	Username string
	Cursor   int
	Limit    int
}
