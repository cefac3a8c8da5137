// Package authforms holds the state behind the sign-up and sign-in forms:
// field values, per-field errors, a submitting flag and a status message.
package authforms

import (
	"context"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Auth is the auth client as the forms use it.
type Auth interface {
	SignUp(ctx context.Context, input authrepo.SignUpInput) (authrepo.Outcome, error)
	SignIn(ctx context.Context, input authrepo.SignInInput) (authrepo.Session, error)
}

// Status is what a form shows above its fields after a submit.
type Status struct {
	Message string
	IsError bool
}

type form struct {
	log        *logger.Logger
	auth       Auth
	errs       schemas.FieldErrors
	status     Status
	submitting bool
}

func (f *form) Errors() schemas.FieldErrors { return f.errs }

func (f *form) Status() Status { return f.status }

// Submitting reports whether a submit is in flight. Submit is refused while
// it is.
func (f *form) Submitting() bool { return f.submitting }

// begin starts a submit, returning false if one is already running.
func (f *form) begin() bool {
	if f.submitting {
		return false
	}
	f.submitting = true
	f.status = Status{}
	return true
}

func (f *form) finish(ctx context.Context, op string, err error) {
	f.submitting = false
	if err == nil {
		return
	}
	if ve, ok := schemas.AsValidationError(err); ok {
		f.errs = schemas.FieldErrors{}
		for field, msg := range ve.Fields {
			f.errs.Add(field, msg)
		}
		return
	}

	f.log.WarnContext(ctx, "auth form", "op", op, "err", err)
	msg := err.Error()
	if ae, ok := authrepo.AsAuthError(err); ok {
		msg = ae.Message
	}
	f.status = Status{Message: msg, IsError: true}
}

type SignUpForm struct {
	form
	values authrepo.SignUpInput
}

func NewSignUpForm(log *logger.Logger, auth Auth) *SignUpForm {
	return &SignUpForm{
		form: form{log: log, auth: auth, errs: schemas.FieldErrors{}},
	}
}

func (f *SignUpForm) Values() authrepo.SignUpInput { return f.values }

// Set updates one field and clears that field's error only.
func (f *SignUpForm) Set(field, value string) {
	switch field {
	case schemas.FieldEmail:
		f.values.Email = value
	case schemas.FieldPassword:
		f.values.Password = value
	case schemas.FieldConfirmPassword:
		f.values.ConfirmPassword = value
	default:
		return
	}
	f.errs.Clear(field)
}

// Submit registers the account. On success the fields are emptied and the
// confirmation message is shown.
func (f *SignUpForm) Submit(ctx context.Context) bool {
	if !f.begin() {
		return false
	}

	out, err := f.auth.SignUp(ctx, f.values)
	f.finish(ctx, "sign-up", err)
	if err != nil {
		return false
	}

	f.values = authrepo.SignUpInput{}
	f.errs = schemas.FieldErrors{}
	f.status = Status{Message: out.Message}
	return true
}

type SignInForm struct {
	form
	values  authrepo.SignInInput
	session *authrepo.Session
}

func NewSignInForm(log *logger.Logger, auth Auth) *SignInForm {
	return &SignInForm{
		form: form{log: log, auth: auth, errs: schemas.FieldErrors{}},
	}
}

func (f *SignInForm) Values() authrepo.SignInInput { return f.values }

// Set updates one field and clears that field's error only.
func (f *SignInForm) Set(field, value string) {
	switch field {
	case schemas.FieldEmail:
		f.values.Email = value
	case schemas.FieldPassword:
		f.values.Password = value
	default:
		return
	}
	f.errs.Clear(field)
}

// Submit signs in. On success Session returns the new session and the caller
// moves on to the task view.
func (f *SignInForm) Submit(ctx context.Context) bool {
	if !f.begin() {
		return false
	}

	session, err := f.auth.SignIn(ctx, f.values)
	f.finish(ctx, "sign-in", err)
	if err != nil {
		return false
	}

	f.session = &session
	f.errs = schemas.FieldErrors{}
	return true
}

// Session returns the session from the last successful submit.
func (f *SignInForm) Session() (authrepo.Session, bool) {
	if f.session == nil {
		return authrepo.Session{}, false
	}
	return *f.session, true
}
