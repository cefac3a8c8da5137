package authforms_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/core/usecases/authforms"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorer struct {
	calls int
	err   error
}

func (s *stubStorer) SignUp(context.Context, authrepo.Credentials, string) (authrepo.UserIdentity, error) {
	s.calls++
	return authrepo.UserIdentity{ID: "u1"}, s.err
}

func (s *stubStorer) SignIn(_ context.Context, creds authrepo.Credentials) (authrepo.Session, error) {
	s.calls++
	if s.err != nil {
		return authrepo.Session{}, s.err
	}
	return authrepo.Session{AccessToken: "tok", User: authrepo.UserIdentity{ID: "u1", Email: creds.Email}}, nil
}

func (s *stubStorer) GetUser(context.Context, string) (authrepo.UserIdentity, error) {
	return authrepo.UserIdentity{}, nil
}

func (s *stubStorer) SignOut(context.Context, string) error { return nil }

func newAuth(s *stubStorer) *authrepo.Repository {
	return authrepo.NewRepository(logger.NewDiscard(), s)
}

func TestSignUpForm_Success(t *testing.T) {
	s := &stubStorer{}
	f := authforms.NewSignUpForm(logger.NewDiscard(), newAuth(s))

	f.Set(schemas.FieldEmail, "a@b.co")
	f.Set(schemas.FieldPassword, "Secret123")
	f.Set(schemas.FieldConfirmPassword, "Secret123")

	require.True(t, f.Submit(context.Background()))
	assert.False(t, f.Submitting())
	assert.Equal(t, authforms.Status{Message: "Check your email to confirm your account!"}, f.Status())
	assert.Equal(t, authrepo.SignUpInput{}, f.Values())
	assert.Equal(t, 1, s.calls)
}

func TestSignUpForm_FieldErrorsClearOnEdit(t *testing.T) {
	s := &stubStorer{}
	f := authforms.NewSignUpForm(logger.NewDiscard(), newAuth(s))

	f.Set(schemas.FieldEmail, "bad")
	f.Set(schemas.FieldPassword, "Secret123")
	f.Set(schemas.FieldConfirmPassword, "Secret124")

	assert.False(t, f.Submit(context.Background()))
	assert.Zero(t, s.calls)
	assert.Equal(t, schemas.MsgEmailInvalid, f.Errors()[schemas.FieldEmail])
	assert.Equal(t, schemas.MsgPasswordsMismatch, f.Errors()[schemas.FieldConfirmPassword])

	f.Set(schemas.FieldEmail, "a@b.co")
	assert.False(t, f.Errors().Has(schemas.FieldEmail))
	assert.True(t, f.Errors().Has(schemas.FieldConfirmPassword))
}

func TestSignUpForm_ServiceMessageShownVerbatim(t *testing.T) {
	s := &stubStorer{err: &authrepo.AuthError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}}
	f := authforms.NewSignUpForm(logger.NewDiscard(), newAuth(s))

	f.Set(schemas.FieldEmail, "a@b.co")
	f.Set(schemas.FieldPassword, "Secret123")
	f.Set(schemas.FieldConfirmPassword, "Secret123")

	assert.False(t, f.Submit(context.Background()))
	assert.Equal(t, authforms.Status{Message: "User already registered", IsError: true}, f.Status())
	assert.Equal(t, "a@b.co", f.Values().Email)
}

func TestSignInForm(t *testing.T) {
	s := &stubStorer{err: &authrepo.AuthError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}}
	f := authforms.NewSignInForm(logger.NewDiscard(), newAuth(s))

	f.Set(schemas.FieldEmail, "a@b.co")
	f.Set(schemas.FieldPassword, "whatever1")

	assert.False(t, f.Submit(context.Background()))
	assert.Equal(t, "Invalid login credentials", f.Status().Message)
	_, ok := f.Session()
	assert.False(t, ok)

	s.err = nil
	require.True(t, f.Submit(context.Background()))
	assert.Empty(t, f.Status().Message)
	session, ok := f.Session()
	require.True(t, ok)
	assert.Equal(t, "tok", session.AccessToken)
}

func TestSignInForm_ShortPasswordRejectedLocally(t *testing.T) {
	s := &stubStorer{}
	f := authforms.NewSignInForm(logger.NewDiscard(), newAuth(s))

	f.Set(schemas.FieldEmail, "a@b.co")
	f.Set(schemas.FieldPassword, "short")

	assert.False(t, f.Submit(context.Background()))
	assert.Equal(t, schemas.MsgPasswordTooShort, f.Errors()[schemas.FieldPassword])
	assert.Zero(t, s.calls)
}
