package sessionsrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo/stores/sessionsmemorystore"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = authrepo.UserIdentity{ID: "u1", Email: "alice@example.com"}

func TestRememberLookupForget(t *testing.T) {
	store := sessionsmemorystore.NewStore()
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	require.NoError(t, repo.Remember(ctx, "tok", alice, time.Now().Add(time.Hour)))

	got, err := repo.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = repo.Lookup(ctx, "other")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Forget(ctx, "tok"))
	_, err = repo.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRemember_ExpiredTokenNotStored(t *testing.T) {
	store := sessionsmemorystore.NewStore()
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store)

	require.NoError(t, repo.Remember(context.Background(), "tok", alice, time.Now().Add(-time.Second)))
	assert.Zero(t, store.Len())
}

func TestRemember_RequiresTokenAndIdentity(t *testing.T) {
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), sessionsmemorystore.NewStore())
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	assert.Error(t, repo.Remember(ctx, "", alice, exp))
	assert.Error(t, repo.Remember(ctx, "tok", authrepo.UserIdentity{}, exp))
}

func TestDigest_NeverTheToken(t *testing.T) {
	d := sessionsrepo.Digest("secret-token")
	assert.Len(t, d, 64)
	assert.NotContains(t, d, "secret-token")
	assert.Equal(t, d, sessionsrepo.Digest("secret-token"))
	assert.NotEqual(t, d, sessionsrepo.Digest("secret-token2"))
}

func TestRevoke_RefusesTokenUntilExpiry(t *testing.T) {
	now := time.Now()
	store := sessionsmemorystore.NewStore()
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	require.NoError(t, repo.Remember(ctx, "tok", alice, now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "tok", now.Add(time.Hour)))

	_, err := repo.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, sessionsrepo.ErrRevoked)

	// Remembering again does not lift the revocation.
	require.NoError(t, repo.Remember(ctx, "tok", alice, now.Add(time.Hour)))
	_, err = repo.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, sessionsrepo.ErrRevoked)

	store.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = repo.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRevoke_ExpiredTokenOnlyForgotten(t *testing.T) {
	store := sessionsmemorystore.NewStore()
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	require.NoError(t, repo.Remember(ctx, "tok", alice, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "tok", time.Now().Add(-time.Minute)))
	assert.Zero(t, store.Len())
}
