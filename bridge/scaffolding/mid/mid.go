// Package mid provides app level middleware support.
package mid

import (
	"context"
	"net/http"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/infrastructure/web"
)

type ctxKey int

const (
	identityKey ctxKey = iota + 1
	tokenKey
)

func setIdentity(ctx context.Context, identity authrepo.UserIdentity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, tokenKey, token)
}

// GetIdentity returns the authenticated user placed in ctx by Authenticate.
func GetIdentity(ctx context.Context) (authrepo.UserIdentity, bool) {
	v, ok := ctx.Value(identityKey).(authrepo.UserIdentity)
	return v, ok
}

// GetUserID returns the authenticated user's id, or "".
func GetUserID(ctx context.Context) string {
	v, _ := GetIdentity(ctx)
	return v.ID
}

// GetToken returns the access token the request authenticated with.
func GetToken(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey).(string)
	return v
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}

type httpStatus interface {
	HTTPStatus() int
}

func statusOf(e web.Encoder) int {
	switch v := e.(type) {
	case nil:
		return http.StatusNoContent
	case httpStatus:
		return v.HTTPStatus()
	case error:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
