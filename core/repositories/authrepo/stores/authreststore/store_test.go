package authreststore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authreststore"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, h http.HandlerFunc) *authreststore.Store {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := supabase.New(supabase.Options{URL: srv.URL, AnonKey: "anon"})
	require.NoError(t, err)
	return authreststore.NewStore(logger.NewDiscard(), client)
}

func TestSignUp_SendsRedirect(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "http://localhost/sign-in", r.URL.Query().Get("redirect_to"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		assert.Equal(t, "Secret123", body["password"])

		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.co","confirmation_sent_at":"2026-01-01T00:00:00Z"}`))
	})

	user, err := store.SignUp(context.Background(), authrepo.Credentials{Email: "a@b.co", Password: "Secret123"}, "http://localhost/sign-in")
	require.NoError(t, err)
	assert.Equal(t, authrepo.UserIdentity{ID: "u1", Email: "a@b.co"}, user)
}

func TestSignUp_SessionShapedAnswer(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"x","user":{"id":"u2","email":"c@d.co"}}`))
	})

	user, err := store.SignUp(context.Background(), authrepo.Credentials{Email: "c@d.co", Password: "Secret123"}, "")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestSignUp_RejectionKeepsServiceMessage(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	})

	_, err := store.SignUp(context.Background(), authrepo.Credentials{Email: "a@b.co", Password: "Secret123"}, "")
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "User already registered", ae.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
}

func TestSignIn(t *testing.T) {
	expires := time.Now().Add(time.Hour).Unix()
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"refresh_token": "refresh",
			"expires_in":    3600,
			"expires_at":    expires,
			"user":          map[string]string{"id": "u1", "email": "a@b.co"},
		})
	})

	session, err := store.SignIn(context.Background(), authrepo.Credentials{Email: "a@b.co", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, expires, session.ExpiresAt.Unix())
	assert.Equal(t, "u1", session.User.ID)
}

func TestSignIn_BadCredentials(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := store.SignIn(context.Background(), authrepo.Credentials{Email: "a@b.co", Password: "Secret123"})
	ae, ok := authrepo.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid login credentials", ae.Message)
	assert.True(t, ae.Rejected())
}

func TestGetUserAndSignOut_UseAccessToken(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.co","role":"authenticated"}`))
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})

	user, err := store.GetUser(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	require.NoError(t, store.SignOut(context.Background(), "user-token"))
}
