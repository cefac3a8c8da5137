package authrepo_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorer struct {
	calls      int
	redirectTo string
	creds      authrepo.Credentials
	user       authrepo.UserIdentity
	err        error
}

func (s *stubStorer) SignUp(_ context.Context, creds authrepo.Credentials, redirectTo string) (authrepo.UserIdentity, error) {
	s.calls++
	s.creds = creds
	s.redirectTo = redirectTo
	return s.user, s.err
}

func (s *stubStorer) SignIn(_ context.Context, creds authrepo.Credentials) (authrepo.Session, error) {
	s.calls++
	s.creds = creds
	if s.err != nil {
		return authrepo.Session{}, s.err
	}
	return authrepo.Session{AccessToken: "tok", User: s.user}, nil
}

func (s *stubStorer) GetUser(context.Context, string) (authrepo.UserIdentity, error) {
	s.calls++
	return s.user, s.err
}

func (s *stubStorer) SignOut(context.Context, string) error {
	s.calls++
	return s.err
}

func TestSignUp_AcceptedAsksForConfirmation(t *testing.T) {
	s := &stubStorer{user: authrepo.UserIdentity{ID: "u1", Email: "a@b.co"}}
	repo := authrepo.NewRepository(logger.NewDiscard(), s, authrepo.WithRedirectURL("http://localhost:3000/sign-in"))

	out, err := repo.SignUp(context.Background(), authrepo.SignUpInput{
		Email:           "A@B.co",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
	})
	require.NoError(t, err)

	assert.True(t, out.ConfirmationRequested)
	assert.Equal(t, "Check your email to confirm your account!", out.Message)
	require.NotNil(t, out.User)
	assert.Equal(t, "u1", out.User.ID)
	assert.Equal(t, "a@b.co", s.creds.Email)
	assert.Equal(t, "http://localhost:3000/sign-in", s.redirectTo)
}

func TestSignUp_WeakPasswordNeverReachesService(t *testing.T) {
	s := &stubStorer{}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	_, err := repo.SignUp(context.Background(), authrepo.SignUpInput{
		Email:           "a@b.co",
		Password:        "alllowercase1",
		ConfirmPassword: "different",
	})
	ve, ok := schemas.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, schemas.MsgPasswordUpper, ve.Fields[schemas.FieldPassword])
	assert.Equal(t, schemas.MsgPasswordsMismatch, ve.Fields[schemas.FieldConfirmPassword])
	assert.Zero(t, s.calls)
}

func TestSignIn_ServiceMessageIsVerbatim(t *testing.T) {
	s := &stubStorer{err: &authrepo.AuthError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	_, err := repo.SignIn(context.Background(), authrepo.SignInInput{Email: "a@b.co", Password: "whatever1"})
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid login credentials", ae.Message)
	assert.Equal(t, "sign-in", ae.Op)
	assert.True(t, ae.Rejected())
}

func TestSignIn_TransportFailureBecomesAuthError(t *testing.T) {
	s := &stubStorer{err: errors.New("dial tcp: connection refused")}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	_, err := repo.SignIn(context.Background(), authrepo.SignInInput{Email: "a@b.co", Password: "whatever1"})
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.False(t, ae.Rejected())
	assert.Contains(t, ae.Message, "connection refused")
}

func TestSignIn_InvalidInputRejectedLocally(t *testing.T) {
	s := &stubStorer{}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	_, err := repo.SignIn(context.Background(), authrepo.SignInInput{Email: "nope", Password: "short"})
	ve, ok := schemas.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, schemas.MsgEmailInvalid, ve.Fields[schemas.FieldEmail])
	assert.Equal(t, schemas.MsgPasswordTooShort, ve.Fields[schemas.FieldPassword])
	assert.Zero(t, s.calls)
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()

	s := &stubStorer{user: authrepo.UserIdentity{ID: "u1"}}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	_, ok := repo.GetCurrentUser(ctx, "")
	assert.False(t, ok)
	assert.Zero(t, s.calls)

	user, ok := repo.GetCurrentUser(ctx, "tok")
	assert.True(t, ok)
	assert.Equal(t, "u1", user.ID)

	s.err = &authrepo.AuthError{Status: http.StatusUnauthorized, Message: "JWT expired"}
	_, ok = repo.GetCurrentUser(ctx, "tok")
	assert.False(t, ok)
}

func TestSignOut(t *testing.T) {
	s := &stubStorer{}
	repo := authrepo.NewRepository(logger.NewDiscard(), s)

	require.NoError(t, repo.SignOut(context.Background(), ""))
	assert.Zero(t, s.calls)

	s.err = errors.New("boom")
	err := repo.SignOut(context.Background(), "tok")
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "sign-out", ae.Op)
}
