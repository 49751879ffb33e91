package stores

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/models"
	"github.com/scribe-blog/scribe/internal/logging"
)

type anonTokens struct{}

func (anonTokens) AccessToken(ctx context.Context) (string, error)          { return "", nil }
func (anonTokens) StoreAccessToken(ctx context.Context, token string) error { return nil }
func (anonTokens) Reset(ctx context.Context) error                          { return nil }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newClient(t *testing.T, handler http.HandlerFunc) (*api.Client, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, anonTokens{}, testLogger())
	require.NoError(t, err)
	return client, &requests
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func TestListParams_Query(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   string
	}{
		{name: "empty", params: ListParams{}, want: ""},
		{name: "cursor only", params: ListParams{Cursor: 42}, want: "?cursor=42"},
		{
			name:   "all set",
			params: ListParams{Cursor: 7, User: "ann", Limit: 10, Order: "asc", Category: "go"},
			want:   "?category=go&cursor=7&limit=10&order=asc&user=ann",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.query())
		})
	}
}

func TestPostStore_ListCachesBySlug(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/posts", r.URL.Path)
		require.Equal(t, "ann", r.URL.Query().Get("user"))
		writeData(t, w, models.PostList{
			Posts: []models.Post{
				{Id: 1, Slug: "first-post", Title: "First post"},
				{Id: 2, Slug: "second-post", Title: "Second post"},
			},
			NextCursor: 2,
		})
	})
	store := NewPostStore(client, testLogger())

	list, err := store.List(context.Background(), ListParams{User: "ann"}, api.NewEnvelope())
	require.NoError(t, err)
	require.Len(t, list.Posts, 2)
	assert.Equal(t, 2, list.NextCursor)

	// Both listed posts are now served from cache.
	p, err := store.Get(context.Background(), "second-post", api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, "Second post", p.Title)
	assert.Equal(t, int32(1), requests.Load())
}

func TestPostStore_GetFetchesOnceThenCaches(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/posts/hello-world", r.URL.Path)
		writeData(t, w, models.Post{Id: 1, Slug: "hello-world", Title: "Hello world"})
	})
	store := NewPostStore(client, testLogger())

	for i := 0; i < 3; i++ {
		p, err := store.Get(context.Background(), "hello-world", api.NewEnvelope())
		require.NoError(t, err)
		assert.Equal(t, "Hello world", p.Title)
	}
	assert.Equal(t, int32(1), requests.Load())
}

func TestPostStore_CreateValidationBlocksNetwork(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	store := NewPostStore(client, testLogger())
	rr := api.NewEnvelope()

	p, err := store.Create(context.Background(), PostForm{Content: "body"}, rr)
	require.NoError(t, err)

	assert.Nil(t, p)
	assert.Equal(t, []string{"This field cannot be blank"}, rr.Errors["title"])
	assert.Zero(t, requests.Load())
}

func TestPostStore_CreateCachesServerSlug(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeData(t, w, models.Post{Id: 9, Slug: "my-new-post", Title: "My new post"})
	})
	store := NewPostStore(client, testLogger())

	p, err := store.Create(context.Background(), PostForm{Title: "My new post", Content: "body"}, api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, "my-new-post", p.Slug)

	cached, err := store.Get(context.Background(), "my-new-post", api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, 9, cached.Id)
	assert.Equal(t, int32(1), requests.Load())
}

func TestPostStore_UpdateReplacesCacheEntry(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/posts/old-title", r.URL.Path)
		writeData(t, w, models.Post{Id: 1, Slug: "new-title", Title: "New title"})
	})
	store := NewPostStore(client, testLogger())

	p, err := store.Update(context.Background(), "old-title", PostForm{Title: "New title", Content: "body"}, api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, "new-title", p.Slug)

	// The new slug is cached, the old one is gone.
	store.mu.Lock()
	_, oldCached := store.bySlug["old-title"]
	_, newCached := store.bySlug["new-title"]
	store.mu.Unlock()
	assert.False(t, oldCached)
	assert.True(t, newCached)
}

func TestPostStore_DeleteEvicts(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, models.Post{Id: 1, Slug: "doomed", Title: "Doomed"})
	})
	store := NewPostStore(client, testLogger())

	_, err := store.Get(context.Background(), "doomed", api.NewEnvelope())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "doomed", api.NewEnvelope()))

	_, err = store.Get(context.Background(), "doomed", api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load(), "deletion forces a refetch")
}

func TestPostStore_Invalidate(t *testing.T) {
	client, requests := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, models.Post{Id: 1, Slug: "p", Title: "P"})
	})
	store := NewPostStore(client, testLogger())

	_, err := store.Get(context.Background(), "p", api.NewEnvelope())
	require.NoError(t, err)

	store.Invalidate()

	_, err = store.Get(context.Background(), "p", api.NewEnvelope())
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}
