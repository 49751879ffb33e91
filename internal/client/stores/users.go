package stores

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/models"
	"github.com/scribe-blog/scribe/internal/logging"
	"github.com/scribe-blog/scribe/internal/validate"
)

// ProfileForm carries a profile update. Avatar bytes are optional; when set
// they travel as a multipart file part named "avatar".
type ProfileForm struct {
	Name       string
	Bio        string
	AvatarName string
	Avatar     []byte
}

// UserStore fetches and caches public profiles by username.
type UserStore struct {
	api *api.Client
	log logging.Logger

	mu         sync.Mutex
	byUsername map[string]*models.User
}

func NewUserStore(client *api.Client, log logging.Logger) *UserStore {
	return &UserStore{api: client, log: log, byUsername: make(map[string]*models.User)}
}

// Get returns the profile for username, from cache when present.
func (s *UserStore) Get(ctx context.Context, username string, rr *api.Envelope) (*models.User, error) {
	s.mu.Lock()
	if u, ok := s.byUsername[username]; ok {
		s.mu.Unlock()
		cp := *u
		return &cp, nil
	}
	s.mu.Unlock()

	if err := rr.Do(ctx, s.api, http.MethodGet, "/users/"+url.PathEscape(username), nil); err != nil {
		return nil, err
	}

	var user models.User
	if err := rr.Decode(&user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.byUsername[user.Username] = &user
	s.mu.Unlock()

	cp := user
	return &cp, nil
}

// CheckUsername asks the server whether username is free to register.
func (s *UserStore) CheckUsername(ctx context.Context, username string, rr *api.Envelope) (bool, error) {
	body := map[string]string{"username": username}
	if err := rr.Do(ctx, s.api, http.MethodPost, "/users/check-username", body); err != nil {
		return false, err
	}

	var out struct {
		Available bool `json:"available"`
	}
	if err := rr.Decode(&out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// UpdateProfile validates the form and PATCHes the profile as multipart. The
// body is built up front into one byte slice so a token-refresh replay resends
// identical bytes.
func (s *UserStore) UpdateProfile(ctx context.Context, username string, form ProfileForm, rr *api.Envelope) (*models.User, error) {
	v := validate.New(map[string]string{
		"name": form.Name,
		"bio":  form.Bio,
	}).
		StrMaxLength("name", 40).
		StrMaxLength("bio", 160)

	if !v.IsValid() {
		rr.Errors = v.Errors()
		return nil, nil
	}

	body, contentType, err := encodeProfile(form)
	if err != nil {
		return nil, err
	}

	path := "/users/" + url.PathEscape(username)
	if err := rr.DoRaw(ctx, s.api, http.MethodPatch, path, body, contentType); err != nil {
		return nil, err
	}

	var user models.User
	if err := rr.Decode(&user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.byUsername[user.Username] = &user
	s.mu.Unlock()

	cp := user
	return &cp, nil
}

func encodeProfile(form ProfileForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", form.Name); err != nil {
		return nil, "", fmt.Errorf("encoding profile form: %w", err)
	}
	if err := w.WriteField("bio", form.Bio); err != nil {
		return nil, "", fmt.Errorf("encoding profile form: %w", err)
	}
	if len(form.Avatar) > 0 {
		part, err := w.CreateFormFile("avatar", form.AvatarName)
		if err != nil {
			return nil, "", fmt.Errorf("encoding avatar: %w", err)
		}
		if _, err := part.Write(form.Avatar); err != nil {
			return nil, "", fmt.Errorf("encoding avatar: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// Invalidate drops the whole cache. Wired to the session reset hook.
func (s *UserStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUsername = make(map[string]*models.User)
}
