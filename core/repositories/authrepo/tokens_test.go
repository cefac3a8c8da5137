package authrepo_test

import (
	"testing"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	secret := []byte("test-secret")
	user := authrepo.UserIdentity{ID: "u1", Email: "a@b.co"}

	token, exp, err := authrepo.IssueToken(secret, user, time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := authrepo.VerifyToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, user, claims.Identity())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, exp.Unix(), claims.Expiry().Unix())
}

func TestVerifyToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")
	user := authrepo.UserIdentity{ID: "u1", Email: "a@b.co"}

	token, _, err := authrepo.IssueToken(secret, user, time.Minute)
	require.NoError(t, err)

	_, err = authrepo.VerifyToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, authrepo.ErrInvalidToken)

	expired, _, err := authrepo.IssueToken(secret, user, -time.Minute)
	require.NoError(t, err)
	_, err = authrepo.VerifyToken(secret, expired)
	assert.ErrorIs(t, err, authrepo.ErrInvalidToken)

	_, err = authrepo.VerifyToken(secret, "not.a.jwt")
	assert.ErrorIs(t, err, authrepo.ErrInvalidToken)
}
