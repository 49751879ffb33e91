// Package storage provides the two key-value tiers the client persists its
// session into: a durable SQLite-backed tier that survives restarts, and an
// ephemeral in-memory tier that lives only as long as the process.
//
// Each tier holds at most two keys (common.StorageKeyUser and
// common.StorageKeyAccessToken). The session store is the sole writer; at any
// point at most one tier holds a live access token.
package storage

import "context"

// Tier is a flat key-value store. Get returns (nil, nil) when the key is
// absent so callers can distinguish "not set" from a storage failure.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
