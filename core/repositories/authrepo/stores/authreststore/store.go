// Package authreststore talks to the hosted auth service's REST endpoints.
package authreststore

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

const (
	pathSignUp = "/auth/v1/signup"
	pathToken  = "/auth/v1/token"
	pathUser   = "/auth/v1/user"
	pathLogout = "/auth/v1/logout"
)

type Store struct {
	log    *logger.Logger
	client *supabase.Client
}

func NewStore(log *logger.Logger, client *supabase.Client) *Store {
	return &Store{
		log:    log,
		client: client,
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u userBody) identity() authrepo.UserIdentity {
	return authrepo.UserIdentity{ID: u.ID, Email: u.Email}
}

// signUpBody covers both answers: a bare user when confirmation is required,
// or a session wrapping the user when it is not.
type signUpBody struct {
	userBody
	User *userBody `json:"user"`
}

type tokenBody struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	User         userBody `json:"user"`
}

func toAuthError(op string, err error) error {
	se, ok := supabase.AsServiceError(err)
	if !ok {
		return &authrepo.AuthError{Op: op, Message: err.Error(), Err: err}
	}
	return &authrepo.AuthError{Op: op, Status: se.Status, Message: se.Message, Err: se}
}

func (s *Store) SignUp(ctx context.Context, creds authrepo.Credentials, redirectTo string) (authrepo.UserIdentity, error) {
	req := supabase.Request{
		Method: http.MethodPost,
		Path:   pathSignUp,
		Body:   credentialsBody{Email: creds.Email, Password: creds.Password},
	}
	if redirectTo != "" {
		req.Query = url.Values{"redirect_to": {redirectTo}}
	}

	var out signUpBody
	if err := s.client.Do(ctx, req, &out); err != nil {
		return authrepo.UserIdentity{}, toAuthError(authrepo.OpSignUp, err)
	}
	if out.User != nil {
		return out.User.identity(), nil
	}
	return out.userBody.identity(), nil
}

func (s *Store) SignIn(ctx context.Context, creds authrepo.Credentials) (authrepo.Session, error) {
	var out tokenBody
	err := s.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   pathToken,
		Query:  url.Values{"grant_type": {"password"}},
		Body:   credentialsBody{Email: creds.Email, Password: creds.Password},
	}, &out)
	if err != nil {
		return authrepo.Session{}, toAuthError(authrepo.OpSignIn, err)
	}

	expiresAt := time.Unix(out.ExpiresAt, 0)
	if out.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}

	return authrepo.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         out.User.identity(),
	}, nil
}

func (s *Store) GetUser(ctx context.Context, accessToken string) (authrepo.UserIdentity, error) {
	var out userBody
	err := s.client.Do(ctx, supabase.Request{
		Method: http.MethodGet,
		Path:   pathUser,
		Token:  accessToken,
	}, &out)
	if err != nil {
		return authrepo.UserIdentity{}, toAuthError("get-user", err)
	}
	return out.identity(), nil
}

func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	err := s.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   pathLogout,
		Token:  accessToken,
	}, nil)
	if err != nil {
		return toAuthError("sign-out", err)
	}
	return nil
}
