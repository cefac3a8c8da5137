package mid

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrazmi/flowdesk/bridge/scaffolding/errs"
	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// fallbackTTL bounds how long an identity confirmed by the auth service is
// cached when the token carries no readable expiry.
const fallbackTTL = 5 * time.Minute

// Sessions is the session registry as Authenticate uses it.
type Sessions interface {
	Lookup(ctx context.Context, token string) (authrepo.UserIdentity, error)
	Remember(ctx context.Context, token string, identity authrepo.UserIdentity, expiresAt time.Time) error
}

// Identities resolves a token through the auth service.
type Identities interface {
	GetCurrentUser(ctx context.Context, accessToken string) (authrepo.UserIdentity, bool)
}

type AuthConfig struct {
	Log        *logger.Logger
	Sessions   Sessions
	Identities Identities

	// JWTSecret, when set, lets tokens be verified locally before asking the
	// auth service.
	JWTSecret []byte
}

// Authenticate requires an "Authorization: Bearer" token and resolves it to
// an identity: first the session registry, then local signature
// verification, then the auth service. A token the registry holds as signed
// out is refused before any verification. Resolved identities are remembered.
// The token also goes into the context for stores that run as the user.
func Authenticate(cfg AuthConfig) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			token := web.BearerToken(r)
			if token == "" {
				return errs.Newf(errs.Unauthenticated, "missing bearer token")
			}

			identity, ok := resolve(ctx, cfg, token)
			if !ok {
				return errs.Newf(errs.Unauthenticated, "invalid or expired session")
			}

			ctx = setIdentity(ctx, identity, token)
			ctx = supabase.WithAccessToken(ctx, token)

			return next(ctx, r)
		}
	}
}

func resolve(ctx context.Context, cfg AuthConfig, token string) (authrepo.UserIdentity, bool) {
	if cfg.Sessions != nil {
		identity, err := cfg.Sessions.Lookup(ctx, token)
		if err == nil {
			return identity, true
		}
		if errors.Is(err, sessionsrepo.ErrRevoked) {
			return authrepo.UserIdentity{}, false
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			cfg.Log.WarnContext(ctx, "session lookup", "err", err)
		}
	}

	if len(cfg.JWTSecret) > 0 {
		claims, err := authrepo.VerifyToken(cfg.JWTSecret, token)
		if err != nil {
			return authrepo.UserIdentity{}, false
		}
		identity := claims.Identity()
		remember(ctx, cfg, token, identity, claims.Expiry())
		return identity, true
	}

	if cfg.Identities == nil {
		return authrepo.UserIdentity{}, false
	}
	identity, ok := cfg.Identities.GetCurrentUser(ctx, token)
	if !ok {
		return authrepo.UserIdentity{}, false
	}
	remember(ctx, cfg, token, identity, unverifiedExpiry(token))
	return identity, true
}

func remember(ctx context.Context, cfg AuthConfig, token string, identity authrepo.UserIdentity, exp time.Time) {
	if cfg.Sessions == nil {
		return
	}
	if err := cfg.Sessions.Remember(ctx, token, identity, exp); err != nil {
		cfg.Log.WarnContext(ctx, "remember session", "err", err)
	}
}

// unverifiedExpiry reads exp from a token the auth service has already
// accepted.
func unverifiedExpiry(token string) time.Time {
	if exp, ok := authrepo.UnverifiedExpiry(token); ok {
		return exp
	}
	return time.Now().Add(fallbackTTL)
}
