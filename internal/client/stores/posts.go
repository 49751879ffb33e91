// Package stores holds the thin resource stores sitting between the UI layer
// and the HTTP client. They validate input, issue calls through a request
// envelope and keep a small identity cache so revisiting a resource does not
// refetch it.
package stores

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/models"
	"github.com/scribe-blog/scribe/internal/logging"
	"github.com/scribe-blog/scribe/internal/validate"
)

// ListParams select one page of the post listing. Zero values are omitted
// from the query string, so the server applies its defaults.
type ListParams struct {
	Cursor   int
	User     string
	Limit    int
	Order    string
	Category string
}

func (p ListParams) query() string {
	q := url.Values{}
	if p.Cursor > 0 {
		q.Set("cursor", strconv.Itoa(p.Cursor))
	}
	if p.User != "" {
		q.Set("user", p.User)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// PostForm carries the fields of a post create or update.
type PostForm struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryId int    `json:"category_id"`
}

func (f PostForm) validate() validate.Errors {
	v := validate.New(map[string]string{
		"title":   f.Title,
		"content": f.Content,
	}).
		Required("title", "content").
		StrMaxLength("title", 100)

	if v.IsValid() {
		return nil
	}
	return v.Errors()
}

// PostStore fetches and caches posts by slug. It never writes session state.
type PostStore struct {
	api *api.Client
	log logging.Logger

	mu     sync.Mutex
	bySlug map[string]*models.Post
}

func NewPostStore(client *api.Client, log logging.Logger) *PostStore {
	return &PostStore{api: client, log: log, bySlug: make(map[string]*models.Post)}
}

// List fetches one page of posts and caches each entry by slug.
func (s *PostStore) List(ctx context.Context, params ListParams, rr *api.Envelope) (*models.PostList, error) {
	if err := rr.Do(ctx, s.api, http.MethodGet, "/posts"+params.query(), nil); err != nil {
		return nil, err
	}

	var list models.PostList
	if err := rr.Decode(&list); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range list.Posts {
		p := list.Posts[i]
		s.bySlug[p.Slug] = &p
	}
	s.mu.Unlock()

	return &list, nil
}

// Get returns the post with the given slug, from cache when present.
func (s *PostStore) Get(ctx context.Context, slug string, rr *api.Envelope) (*models.Post, error) {
	s.mu.Lock()
	if p, ok := s.bySlug[slug]; ok {
		s.mu.Unlock()
		cp := *p
		return &cp, nil
	}
	s.mu.Unlock()

	if err := rr.Do(ctx, s.api, http.MethodGet, "/posts/"+url.PathEscape(slug), nil); err != nil {
		return nil, err
	}

	var post models.Post
	if err := rr.Decode(&post); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bySlug[post.Slug] = &post
	s.mu.Unlock()

	cp := post
	return &cp, nil
}

// Create validates the form and creates the post. The server mints the slug;
// the returned post is cached under it.
func (s *PostStore) Create(ctx context.Context, form PostForm, rr *api.Envelope) (*models.Post, error) {
	if errs := form.validate(); errs != nil {
		rr.Errors = errs
		return nil, nil
	}

	if err := rr.Do(ctx, s.api, http.MethodPost, "/posts", form); err != nil {
		return nil, err
	}

	var post models.Post
	if err := rr.Decode(&post); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bySlug[post.Slug] = &post
	s.mu.Unlock()

	return &post, nil
}

// Update validates the form and updates the post. A title change re-slugs the
// post server-side, so the old cache entry is dropped.
func (s *PostStore) Update(ctx context.Context, slug string, form PostForm, rr *api.Envelope) (*models.Post, error) {
	if errs := form.validate(); errs != nil {
		rr.Errors = errs
		return nil, nil
	}

	if err := rr.Do(ctx, s.api, http.MethodPatch, "/posts/"+url.PathEscape(slug), form); err != nil {
		return nil, err
	}

	var post models.Post
	if err := rr.Decode(&post); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.bySlug, slug)
	s.bySlug[post.Slug] = &post
	s.mu.Unlock()

	return &post, nil
}

// Delete removes the post and evicts it from the cache.
func (s *PostStore) Delete(ctx context.Context, slug string, rr *api.Envelope) error {
	if err := rr.Do(ctx, s.api, http.MethodDelete, "/posts/"+url.PathEscape(slug), nil); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.bySlug, slug)
	s.mu.Unlock()
	return nil
}

// Invalidate drops the whole cache. Wired to the session reset hook.
func (s *PostStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySlug = make(map[string]*models.Post)
}
