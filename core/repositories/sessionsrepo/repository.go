// Package sessionsrepo remembers which identity an access token belongs to,
// so requests can be authenticated without asking the auth service every
// time. Tokens are never stored; entries are keyed by their SHA-256 digest.
package sessionsrepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// ErrRevoked is returned by Lookup for a token that was signed out.
var ErrRevoked = errors.New("session revoked")

// revokedTTL bounds a revocation entry for a token with no readable expiry.
const revokedTTL = 24 * time.Hour

type Storer interface {
	Put(ctx context.Context, key string, identity authrepo.UserIdentity, ttl time.Duration) error
	Get(ctx context.Context, key string) (authrepo.UserIdentity, error)
	Delete(ctx context.Context, key string) error
}

type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// Digest is the key a token is stored under.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func revokedKey(token string) string {
	return "revoked:" + Digest(token)
}

// Remember maps token to identity until expiresAt. Already expired tokens are
// not stored.
func (r *Repository) Remember(ctx context.Context, token string, identity authrepo.UserIdentity, expiresAt time.Time) error {
	if token == "" || identity.ID == "" {
		return errors.New("token and identity are required")
	}

	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.storer.Put(ctx, Digest(token), identity, ttl); err != nil {
		return fmt.Errorf("remember session: %w", err)
	}
	return nil
}

// Lookup returns the identity remembered for token. It returns ErrRevoked
// for a signed out token and repositories.ErrNotFound for an unknown one.
func (r *Repository) Lookup(ctx context.Context, token string) (authrepo.UserIdentity, error) {
	if token == "" {
		return authrepo.UserIdentity{}, repositories.ErrNotFound
	}

	_, err := r.storer.Get(ctx, revokedKey(token))
	switch {
	case err == nil:
		return authrepo.UserIdentity{}, ErrRevoked
	case !errors.Is(err, repositories.ErrNotFound):
		return authrepo.UserIdentity{}, fmt.Errorf("lookup revocation: %w", err)
	}

	identity, err := r.storer.Get(ctx, Digest(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return authrepo.UserIdentity{}, err
		}
		return authrepo.UserIdentity{}, fmt.Errorf("lookup session: %w", err)
	}
	return identity, nil
}

func (r *Repository) Forget(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.storer.Delete(ctx, Digest(token)); err != nil {
		return fmt.Errorf("forget session: %w", err)
	}
	return nil
}

// Revoke forgets token and refuses it until expiresAt, even where the token
// would still verify on its own. A zero expiresAt holds the revocation for a
// day.
func (r *Repository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	if err := r.Forget(ctx, token); err != nil {
		return err
	}

	ttl := revokedTTL
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(r.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := r.storer.Put(ctx, revokedKey(token), authrepo.UserIdentity{}, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	r.log.DebugContext(ctx, "session revoked", "ttl", ttl)
	return nil
}
