// Package session holds the client's authentication state: the logged-in
// user, the remember tier choice, and the mirroring of both into storage.
// One Store exists per application; it is the only writer of session state,
// every other component reads through it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/models"
	"github.com/scribe-blog/scribe/internal/logging"
	"github.com/scribe-blog/scribe/internal/validate"
)

// LoginForm carries the login fields. Remember selects the storage tier the
// session is mirrored into.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// RegisterForm carries the registration fields.
type RegisterForm struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
}

type Store struct {
	creds *Credentials
	api   *api.Client
	log   logging.Logger

	mu      sync.RWMutex
	user    *models.User
	onReset func()
}

func New(creds *Credentials, client *api.Client, log logging.Logger) *Store {
	return &Store{creds: creds, api: client, log: log}
}

// OnReset registers the hook run after logout or a forced session wipe, so
// the composition root can drop dependent in-memory state (resource caches,
// current route) instead of restarting the process.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = fn
}

// IsAuth reports whether a user is authenticated in memory.
func (s *Store) IsAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the authenticated user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Remember reports the active tier choice.
func (s *Store) Remember() bool {
	return s.creds.Remember()
}

// Login validates the form locally and, only if it passes, authenticates
// against the server. Validation failures land in rr.Errors and no request
// is made. A transport failure is carried by rr and leaves the session
// untouched. On success the user and token are mirrored into the tier the
// remember flag selects.
func (s *Store) Login(ctx context.Context, form LoginForm, rr *api.Envelope) error {
	v := validate.New(map[string]string{
		"email":    form.Email,
		"password": form.Password,
		"remember": strconv.FormatBool(form.Remember),
	}).
		Required("email", "password", "remember").
		Email("email").
		StrMinLength("password", 8).
		StrMaxLength("password", 72)

	if !v.IsValid() {
		rr.Errors = v.Errors()
		return nil
	}

	if err := rr.Do(ctx, s.api, http.MethodPost, "/auth/login", form); err != nil {
		return nil
	}

	result, err := api.DecodeLogin(rr.Data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &result.User
	s.mu.Unlock()

	s.creds.SetRemember(form.Remember)
	if err := s.MirrorToStorage(ctx, result.AccessToken); err != nil {
		return err
	}

	s.log.Info(ctx, "logged in", "username", result.User.Username, "remember", form.Remember)
	return nil
}

// Register validates the form locally and creates the account. It never
// authenticates: the server's confirmation message is left in rr for the
// caller to show before sending the user to the login view.
func (s *Store) Register(ctx context.Context, form RegisterForm, rr *api.Envelope) error {
	v := validate.New(map[string]string{
		"username":        form.Username,
		"email":           form.Email,
		"password":        form.Password,
		"password_repeat": form.PasswordRepeat,
	}).
		Required("username", "email", "password", "password_repeat").
		StrMinLength("username", 3).
		StrMaxLength("username", 40).
		Email("email").
		StrMinLength("password", 8).
		StrMaxLength("password", 72).
		Equal("password_repeat", "password")

	if !v.IsValid() {
		rr.Errors = v.Errors()
		return nil
	}

	_ = rr.Do(ctx, s.api, http.MethodPost, "/auth/register", form)
	return nil
}

// Hydrate restores the session from storage when none exists in memory.
// The durable tier wins when both hold a credential; finding the session in
// the durable tier also restores remember=true. The token is re-mirrored
// because refreshes only rewrite the token key, not the user record.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.IsAuth() {
		return nil
	}

	userRaw, token, err := load(ctx, s.creds.durable)
	if err != nil {
		return fmt.Errorf("reading durable tier: %w", err)
	}
	remember := true

	if token == nil {
		userRaw, token, err = load(ctx, s.creds.ephemeral)
		if err != nil {
			return fmt.Errorf("reading ephemeral tier: %w", err)
		}
		remember = false
	}

	if token == nil {
		return nil
	}

	var user models.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		// Unreadable stored state is as good as no session.
		s.log.Warn(ctx, "discarding corrupt stored session", "error", err)
		return s.creds.Reset(ctx)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.creds.SetRemember(remember)

	if err := s.MirrorToStorage(ctx, string(token)); err != nil {
		return err
	}

	s.log.Debug(ctx, "session hydrated", "username", user.Username, "remember", remember)
	return nil
}

// Logout invalidates the server-side session best-effort, then clears the
// in-memory user and both storage tiers and fires the reset hook. The server
// call's outcome never gates the client-side logout.
func (s *Store) Logout(ctx context.Context) error {
	rr := api.NewEnvelope()
	if err := rr.Do(ctx, s.api, http.MethodPost, "/auth/logout", nil); err != nil {
		s.log.Warn(ctx, "server-side logout failed, clearing local session anyway", "error", err)
	}

	s.forget()
	if err := s.creds.Reset(ctx); err != nil {
		return fmt.Errorf("clearing storage tiers: %w", err)
	}

	s.mu.RLock()
	hook := s.onReset
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}

	s.log.Info(ctx, "logged out")
	return nil
}

// MirrorToStorage writes the serialized user and, when token is non-empty,
// the access token into whichever tier the remember flag selects.
func (s *Store) MirrorToStorage(ctx context.Context, token string) error {
	user := s.User()
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("serializing user: %w", err)
		}
		if err := s.creds.StoreUser(ctx, raw); err != nil {
			return err
		}
	}

	if token != "" {
		return s.creds.StoreAccessToken(ctx, token)
	}
	return nil
}

// Forget drops the in-memory user without touching storage. The HTTP client
// calls this (via the composition root's reset hook) after a failed refresh
// already wiped the tiers.
func (s *Store) Forget() {
	s.forget()
}

func (s *Store) forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// SetUser replaces the cached authenticated user, e.g. after a profile
// update, and re-mirrors it so hydration sees the fresh record.
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return s.MirrorToStorage(ctx, "")
}
