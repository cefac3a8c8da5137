// Package authrepo is the auth client: registration, password sign-in,
// current identity lookup and sign-out. Input is validated locally first;
// service rejections are passed back with the service's own wording.
package authrepo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

type Storer interface {
	SignUp(ctx context.Context, creds Credentials, redirectTo string) (UserIdentity, error)
	SignIn(ctx context.Context, creds Credentials) (Session, error)
	GetUser(ctx context.Context, accessToken string) (UserIdentity, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Operation names carried in AuthError.Op.
const (
	OpSignUp = "sign-up"
	OpSignIn = "sign-in"
)

// AuthError carries the service's message verbatim. Status is the service's
// HTTP status when known, zero otherwise.
type AuthError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s: %s", e.Op, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Rejected reports whether the service refused the credentials or token, as
// opposed to failing to answer.
func (e *AuthError) Rejected() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// AsAuthError unwraps err into an *AuthError.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type options struct {
	redirectTo string
}

type Option func(*options)

// WithRedirectURL sets where confirmation emails send the user back to,
// normally the sign-in entry point.
func WithRedirectURL(url string) Option {
	return func(o *options) {
		o.redirectTo = url
	}
}

type Repository struct {
	log        *logger.Logger
	storer     Storer
	redirectTo string
}

func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Repository{
		log:        log,
		storer:     storer,
		redirectTo: o.redirectTo,
	}
}

func wrap(op string, err error) error {
	if ae, ok := AsAuthError(err); ok {
		if ae.Op == "" {
			ae.Op = op
		}
		return ae
	}
	return &AuthError{Op: op, Message: err.Error(), Err: err}
}

// SignUp registers a new account. The caller should show Outcome.Message; the
// account is usable once the emailed link is followed.
func (r *Repository) SignUp(ctx context.Context, input SignUpInput) (Outcome, error) {
	creds, err := schemas.ValidateSignUp(input)
	if err != nil {
		return Outcome{}, err
	}

	user, err := r.storer.SignUp(ctx, creds, r.redirectTo)
	if err != nil {
		return Outcome{}, wrap(OpSignUp, err)
	}

	r.log.InfoContext(ctx, "sign-up accepted", "user_id", user.ID)
	out := Outcome{
		ConfirmationRequested: true,
		Message:               MsgConfirmEmail,
	}
	if user.ID != "" {
		out.User = &user
	}
	return out, nil
}

func (r *Repository) SignIn(ctx context.Context, input SignInInput) (Session, error) {
	creds, err := schemas.ValidateSignIn(input)
	if err != nil {
		return Session{}, err
	}

	session, err := r.storer.SignIn(ctx, creds)
	if err != nil {
		return Session{}, wrap(OpSignIn, err)
	}

	r.log.InfoContext(ctx, "signed in", "user_id", session.User.ID)
	return session, nil
}

// GetCurrentUser returns the identity behind accessToken. The second result
// is false when there is no token or the service does not accept it.
func (r *Repository) GetCurrentUser(ctx context.Context, accessToken string) (UserIdentity, bool) {
	if accessToken == "" {
		return UserIdentity{}, false
	}

	user, err := r.storer.GetUser(ctx, accessToken)
	if err != nil {
		if ae, ok := AsAuthError(err); ok && ae.Rejected() {
			return UserIdentity{}, false
		}
		r.log.WarnContext(ctx, "get current user", "err", err)
		return UserIdentity{}, false
	}
	if user.ID == "" {
		return UserIdentity{}, false
	}
	return user, true
}

// SignOut ends the session behind accessToken. Signing out without a token
// does nothing.
func (r *Repository) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := r.storer.SignOut(ctx, accessToken); err != nil {
		return wrap("sign-out", err)
	}
	return nil
}
