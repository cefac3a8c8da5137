package authrepobridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/flowdesk/bridge/repositories/authrepobridge"
	"github.com/jrazmi/flowdesk/bridge/scaffolding/mid"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authgormstore"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo/stores/sessionsmemorystore"
	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

func newHandler(t *testing.T, limiter *mid.RateLimiter) http.Handler {
	log := logger.NewDiscard()

	db, err := sqlitedb.New(sqlitedb.Options{Path: sqlitedb.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlitedb.Close(db) })

	store, err := authgormstore.NewStore(log, db, authgormstore.Config{Secret: "s3cret", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	authRepo := authrepo.NewRepository(log, store)
	sessions := sessionsrepo.NewRepository(log, sessionsmemorystore.NewStore())

	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log), mid.Panics()))
	authrepobridge.AddHttpRoutes(wh.Group("/api/v1"), authrepobridge.Config{
		Log:        log,
		Repository: authRepo,
		Sessions:   sessions,
		Authenticate: mid.Authenticate(mid.AuthConfig{
			Log:        log,
			Sessions:   sessions,
			Identities: authRepo,
			JWTSecret:  []byte("s3cret"),
		}),
		RateLimit: mid.RateLimit(limiter),
	})
	return wh
}

func post(h http.Handler, path, tok string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_Flow(t *testing.T) {
	h := newHandler(t, mid.NewRateLimiter(rate.Inf, 1))

	rec := post(h, "/api/v1/auth/sign-up", "", map[string]string{
		"email":           "Alice@Example.com",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out authrepo.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.ConfirmationRequested)
	assert.Equal(t, authrepo.MsgConfirmEmail, out.Message)

	rec = post(h, "/api/v1/auth/sign-in", "", map[string]string{"email": "alice@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session authrepo.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.AccessToken)

	rec = get(h, "/api/v1/auth/me", session.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me authrepo.UserIdentity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)

	rec = post(h, "/api/v1/auth/sign-out", session.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = get(h, "/api/v1/auth/me", session.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Errors(t *testing.T) {
	h := newHandler(t, mid.NewRateLimiter(rate.Inf, 1))

	rec := post(h, "/api/v1/auth/sign-up", "", map[string]string{
		"email":           "alice@example.com",
		"password":        "secret123",
		"confirmPassword": "secret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Password must contain at least one uppercase letter", body.Fields["password"])
	assert.Equal(t, "Passwords don't match", body.Fields["confirmPassword"])

	rec = post(h, "/api/v1/auth/sign-in", "", map[string]string{"email": "nobody@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid login credentials", body.Error)

	rec = get(h, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SignUpTwiceIsUnprocessable(t *testing.T) {
	h := newHandler(t, mid.NewRateLimiter(rate.Inf, 1))
	creds := map[string]string{
		"email":           "alice@example.com",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
	}

	require.Equal(t, http.StatusCreated, post(h, "/api/v1/auth/sign-up", "", creds).Code)

	rec := post(h, "/api/v1/auth/sign-up", "", creds)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, authgormstore.MsgAlreadyRegistered, body.Error)
}

func TestAuth_SignInIsRateLimited(t *testing.T) {
	h := newHandler(t, mid.NewRateLimiter(rate.Limit(0.001), 2))
	creds := map[string]string{"email": "nobody@example.com", "password": "Secret123"}

	assert.Equal(t, http.StatusUnauthorized, post(h, "/api/v1/auth/sign-in", "", creds).Code)
	assert.Equal(t, http.StatusUnauthorized, post(h, "/api/v1/auth/sign-in", "", creds).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(h, "/api/v1/auth/sign-in", "", creds).Code)
}
