package sessionsmemorystore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo/stores/sessionsmemorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := sessionsmemorystore.NewStore().WithClock(func() time.Time { return now })
	ctx := context.Background()
	user := authrepo.UserIdentity{ID: "u1"}

	require.NoError(t, store.Put(ctx, "k1", user, time.Minute))
	require.NoError(t, store.Put(ctx, "k2", user, time.Hour))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = store.Get(ctx, "k2")
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "k2"))
	assert.Zero(t, store.Len())
}

func TestStore_PutSweepsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := sessionsmemorystore.NewStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", authrepo.UserIdentity{ID: "u1"}, time.Second))
	now = now.Add(time.Minute)
	require.NoError(t, store.Put(ctx, "new", authrepo.UserIdentity{ID: "u2"}, time.Minute))

	assert.Equal(t, 1, store.Len())
}
