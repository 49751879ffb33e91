package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/scribe-blog/scribe/internal/client/storage"
	"github.com/scribe-blog/scribe/internal/common"
)

// Credentials owns the access token's storage lifecycle across the two tiers.
// It implements api.TokenSource, so the HTTP client reads and replaces tokens
// through it without knowing which tier is live.
type Credentials struct {
	mu        sync.Mutex
	durable   storage.Tier
	ephemeral storage.Tier
	remember  bool
}

func NewCredentials(durable, ephemeral storage.Tier) *Credentials {
	return &Credentials{durable: durable, ephemeral: ephemeral}
}

// Remember reports which tier receives session writes.
func (c *Credentials) Remember() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remember
}

// SetRemember selects the storage tier for subsequent writes. Chosen once at
// login and restored by hydration.
func (c *Credentials) SetRemember(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remember = v
}

// activeTier must be called with c.mu held.
func (c *Credentials) activeTier() storage.Tier {
	if c.remember {
		return c.durable
	}
	return c.ephemeral
}

// AccessToken returns the stored token, preferring the durable tier. An
// empty result with nil error means no credential exists anywhere.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tier := range []storage.Tier{c.durable, c.ephemeral} {
		token, err := tier.Get(ctx, common.StorageKeyAccessToken)
		if err != nil {
			return "", err
		}
		if len(token) > 0 {
			return string(token), nil
		}
	}
	return "", nil
}

// StoreAccessToken writes a token into whichever tier the remember flag
// selects, leaving the other tier untouched.
func (c *Credentials) StoreAccessToken(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.activeTier().Set(ctx, common.StorageKeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	return nil
}

// StoreUser mirrors the serialized user record into the active tier.
func (c *Credentials) StoreUser(ctx context.Context, user []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.activeTier().Set(ctx, common.StorageKeyUser, user); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	return nil
}

// Reset clears both tiers and drops the remember flag.
func (c *Credentials) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember = false
	if err := c.durable.Clear(ctx); err != nil {
		return err
	}
	return c.ephemeral.Clear(ctx)
}

// load reads user+token from one tier. Both must be present for a usable
// session; partial state counts as absent.
func load(ctx context.Context, tier storage.Tier) (user, token []byte, err error) {
	user, err = tier.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return nil, nil, err
	}
	token, err = tier.Get(ctx, common.StorageKeyAccessToken)
	if err != nil {
		return nil, nil, err
	}
	if len(user) == 0 || len(token) == 0 {
		return nil, nil, nil
	}
	return user, token, nil
}
