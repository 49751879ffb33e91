package models

import "time"

// Post is addressed externally by its slug; the numeric id never appears in
// URLs. The slug is assigned server-side, the client never invents one.
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

// PostList is one cursor page of posts. NextCursor is 0 on the last page.
type PostList struct {
	Posts      []Post `json:"posts"`
	NextCursor int    `json:"next_cursor"`
}
