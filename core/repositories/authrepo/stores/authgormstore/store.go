// Package authgormstore is the local-mode auth backend: accounts in a gorm
// database with bcrypt password hashes, sessions as HS256 access tokens.
package authgormstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/sdk/cryptids"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Messages mirror the hosted service's wording so views behave the same in
// either mode.
const (
	MsgAlreadyRegistered  = "User already registered"
	MsgInvalidCredentials = "Invalid login credentials"
	MsgInvalidToken       = "invalid JWT: unable to parse or verify signature"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string {
	return "users"
}

// revokedToken marks a signed-out access token until it would have expired
// anyway.
type revokedToken struct {
	ID        string    `gorm:"primaryKey;type:text"`
	ExpiresAt time.Time `gorm:"index"`
}

func (revokedToken) TableName() string {
	return "revoked_tokens"
}

// Config is the exportable configuration struct
type Config struct {
	Secret     string        `toml:"secret" env:"LOCAL_JWT_SECRET"`
	TokenTTL   time.Duration `toml:"token_ttl" env:"LOCAL_TOKEN_TTL" default:"1h"`
	BcryptCost int           `toml:"bcrypt_cost" env:"LOCAL_BCRYPT_COST" default:"10"`
}

type Store struct {
	log    *logger.Logger
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	cost   int
}

func NewStore(log *logger.Logger, db *gorm.DB, cfg Config) (*Store, error) {
	if cfg.Secret == "" {
		return nil, errors.New("local auth requires a token secret")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		log:    log,
		db:     db,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		cost:   cost,
	}, nil
}

// Migrate creates or updates the users and revoked_tokens tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&userRecord{}, &revokedToken{})
}

func rejected(op string, status int, msg string) error {
	return &authrepo.AuthError{Op: op, Status: status, Message: msg}
}

// SignUp creates the account. Local mode has no mail delivery so the account
// is usable immediately; redirectTo is ignored.
func (s *Store) SignUp(ctx context.Context, creds authrepo.Credentials, redirectTo string) (authrepo.UserIdentity, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userRecord{}).Where("email = ?", creds.Email).Count(&count).Error; err != nil {
		return authrepo.UserIdentity{}, fmt.Errorf("lookup user: %w", err)
	}
	if count > 0 {
		return authrepo.UserIdentity{}, rejected(authrepo.OpSignUp, http.StatusUnprocessableEntity, MsgAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return authrepo.UserIdentity{}, fmt.Errorf("hash password: %w", err)
	}

	rec := userRecord{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return authrepo.UserIdentity{}, fmt.Errorf("create user: %w", err)
	}

	s.log.DebugContext(ctx, "local user created", "user_id", rec.ID, "redirect_to", redirectTo)
	return authrepo.UserIdentity{ID: rec.ID, Email: rec.Email}, nil
}

func (s *Store) SignIn(ctx context.Context, creds authrepo.Credentials) (authrepo.Session, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("email = ?", creds.Email).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authrepo.Session{}, rejected(authrepo.OpSignIn, http.StatusBadRequest, MsgInvalidCredentials)
	}
	if err != nil {
		return authrepo.Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(creds.Password)); err != nil {
		return authrepo.Session{}, rejected(authrepo.OpSignIn, http.StatusBadRequest, MsgInvalidCredentials)
	}

	user := authrepo.UserIdentity{ID: rec.ID, Email: rec.Email}
	token, exp, err := authrepo.IssueToken(s.secret, user, s.ttl)
	if err != nil {
		return authrepo.Session{}, err
	}

	refresh, err := cryptids.GenerateID()
	if err != nil {
		return authrepo.Session{}, fmt.Errorf("refresh token: %w", err)
	}

	return authrepo.Session{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         user,
	}, nil
}

func (s *Store) verify(ctx context.Context, accessToken string) (*authrepo.Claims, error) {
	claims, err := authrepo.VerifyToken(s.secret, accessToken)
	if err != nil {
		return nil, rejected("verify", http.StatusUnauthorized, MsgInvalidToken)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&revokedToken{}).Where("id = ?", claims.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lookup revoked token: %w", err)
	}
	if count > 0 {
		return nil, rejected("verify", http.StatusUnauthorized, MsgInvalidToken)
	}
	return claims, nil
}

func (s *Store) GetUser(ctx context.Context, accessToken string) (authrepo.UserIdentity, error) {
	claims, err := s.verify(ctx, accessToken)
	if err != nil {
		return authrepo.UserIdentity{}, err
	}

	var rec userRecord
	err = s.db.WithContext(ctx).Where("id = ?", claims.Subject).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authrepo.UserIdentity{}, rejected("get-user", http.StatusUnauthorized, MsgInvalidToken)
	}
	if err != nil {
		return authrepo.UserIdentity{}, fmt.Errorf("lookup user: %w", err)
	}
	return authrepo.UserIdentity{ID: rec.ID, Email: rec.Email}, nil
}

// SignOut revokes the token and drops revocations that have expired.
func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.verify(ctx, accessToken)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Create(&revokedToken{ID: claims.ID, ExpiresAt: claims.Expiry()}).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if err := db.Where("expires_at < ?", time.Now()).Delete(&revokedToken{}).Error; err != nil {
		s.log.WarnContext(ctx, "prune revoked tokens", "err", err)
	}
	return nil
}
