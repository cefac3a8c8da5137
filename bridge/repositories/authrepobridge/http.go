// Package authrepobridge exposes the auth client over HTTP.
package authrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/flowdesk/bridge/scaffolding/errs"
	"github.com/jrazmi/flowdesk/bridge/scaffolding/mid"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Config holds configuration for the auth bridge
type Config struct {
	Log        *logger.Logger
	Repository *authrepo.Repository
	Sessions   *sessionsrepo.Repository

	// Authenticate guards sign-out and me.
	Authenticate web.Middleware

	// RateLimit guards sign-up and sign-in. Optional.
	RateLimit web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository, cfg.Sessions)

	var limited []web.Middleware
	if cfg.RateLimit != nil {
		limited = append(limited, cfg.RateLimit)
	}

	group.POST("/auth/sign-up", b.httpSignUp, limited...)
	group.POST("/auth/sign-in", b.httpSignIn, limited...)
	group.POST("/auth/sign-out", b.httpSignOut, cfg.Authenticate)
	group.GET("/auth/me", b.httpMe, cfg.Authenticate)
}

func (b *bridge) httpSignUp(ctx context.Context, r *http.Request) web.Encoder {
	record, err := web.DecodeRecord(r)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	creds, err := schemas.ParseSignUp(record)
	if err != nil {
		return errs.From(err)
	}

	out, err := b.authRepository.SignUp(ctx, authrepo.SignUpInput{
		Email:           creds.Email,
		Password:        creds.Password,
		ConfirmPassword: creds.Password,
	})
	if err != nil {
		return errs.From(err)
	}
	return web.NewJSONResponseWithStatus(out, http.StatusCreated)
}

func (b *bridge) httpSignIn(ctx context.Context, r *http.Request) web.Encoder {
	record, err := web.DecodeRecord(r)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	creds, err := schemas.ParseSignIn(record)
	if err != nil {
		return errs.From(err)
	}

	session, err := b.authRepository.SignIn(ctx, authrepo.SignInInput{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return errs.From(err)
	}

	if err := b.sessions.Remember(ctx, session.AccessToken, session.User, session.ExpiresAt); err != nil {
		b.log.WarnContext(ctx, "remember session", "err", err)
	}
	return web.NewJSONResponse(session)
}

func (b *bridge) httpSignOut(ctx context.Context, r *http.Request) web.Encoder {
	token := mid.GetToken(ctx)

	exp, _ := authrepo.UnverifiedExpiry(token)
	if err := b.sessions.Revoke(ctx, token, exp); err != nil {
		b.log.WarnContext(ctx, "revoke session", "err", err)
	}
	if err := b.authRepository.SignOut(ctx, token); err != nil {
		return errs.From(err)
	}
	return nil
}

func (b *bridge) httpMe(ctx context.Context, r *http.Request) web.Encoder {
	identity, ok := mid.GetIdentity(ctx)
	if !ok {
		return errs.Newf(errs.Unauthenticated, "not authenticated")
	}
	return web.NewJSONResponse(identity)
}
