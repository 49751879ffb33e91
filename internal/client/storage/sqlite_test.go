package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteTier_SetAndGet(t *testing.T) {
	r := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "access_token", []byte("tok-1")))

	v, err := r.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, []byte("tok-1"), v)
}

func TestSQLiteTier_GetAbsentReturnsNilNil(t *testing.T) {
	r := NewSQLiteTier(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLiteTier_SetOverwrites(t *testing.T) {
	r := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestSQLiteTier_DeleteIsIdempotent(t *testing.T) {
	r := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "k"))
}

func TestSQLiteTier_Clear(t *testing.T) {
	r := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "user", []byte(`{}`)))
	require.NoError(t, r.Set(ctx, "access_token", []byte("tok")))
	require.NoError(t, r.Clear(ctx))

	for _, key := range []string{"user", "access_token"} {
		v, err := r.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
}
