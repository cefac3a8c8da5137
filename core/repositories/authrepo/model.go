package authrepo

import (
	"time"

	"github.com/jrazmi/flowdesk/core/schemas"
)

// MsgConfirmEmail is shown after a sign-up the service accepted.
const MsgConfirmEmail = "Check your email to confirm your account!"

// UserIdentity is the part of a session flowdesk relies on.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated identity plus the tokens that prove it.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserIdentity `json:"user"`
}

// Outcome is the result of an accepted sign-up.
type Outcome struct {
	ConfirmationRequested bool          `json:"confirmation_requested"`
	Message               string        `json:"message"`
	User                  *UserIdentity `json:"user,omitempty"`
}

type SignUpInput = schemas.SignUpFields

type SignInInput = schemas.SignInFields

// Credentials are validated and normalized email and password.
type Credentials = schemas.Credentials
