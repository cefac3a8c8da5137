package authgormstore_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authgormstore"
	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *authgormstore.Store {
	db, err := sqlitedb.New(sqlitedb.Options{Path: sqlitedb.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlitedb.Close(db) })

	store, err := authgormstore.NewStore(logger.NewDiscard(), db, authgormstore.Config{
		Secret:     "test-secret",
		TokenTTL:   time.Minute,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

var creds = authrepo.Credentials{Email: "a@b.co", Password: "Secret123"}

func TestNewStore_RequiresSecret(t *testing.T) {
	_, err := authgormstore.NewStore(logger.NewDiscard(), nil, authgormstore.Config{})
	assert.Error(t, err)
}

func TestSignUpThenSignIn(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	user, err := store.SignUp(ctx, creds, "")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	session, err := store.SignIn(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, user, session.User)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	got, err := store.GetUser(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.SignUp(ctx, creds, "")
	require.NoError(t, err)

	_, err = store.SignUp(ctx, creds, "")
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, authgormstore.MsgAlreadyRegistered, ae.Message)
}

func TestSignIn_WrongPasswordOrUnknownUser(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.SignUp(ctx, creds, "")
	require.NoError(t, err)

	for _, c := range []authrepo.Credentials{
		{Email: creds.Email, Password: "Wrong1234"},
		{Email: "nobody@b.co", Password: creds.Password},
	} {
		_, err := store.SignIn(ctx, c)
		ae, ok := authrepo.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, authgormstore.MsgInvalidCredentials, ae.Message)
		assert.Equal(t, http.StatusBadRequest, ae.Status)
	}
}

func TestSignOut_RevokesToken(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.SignUp(ctx, creds, "")
	require.NoError(t, err)
	session, err := store.SignIn(ctx, creds)
	require.NoError(t, err)

	require.NoError(t, store.SignOut(ctx, session.AccessToken))

	_, err = store.GetUser(ctx, session.AccessToken)
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
}

func TestGetUser_ForeignToken(t *testing.T) {
	store := newStore(t)
	token, _, err := authrepo.IssueToken([]byte("someone-else"), authrepo.UserIdentity{ID: "u1"}, time.Minute)
	require.NoError(t, err)

	_, err = store.GetUser(context.Background(), token)
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.True(t, ae.Rejected())
}
