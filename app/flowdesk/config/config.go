// Package config loads flowdesk settings and opens the backends they select.
// Both the API server and the terminal client build on it.
package config

import (
	"fmt"

	"github.com/jrazmi/flowdesk/bridge/scaffolding/mid"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authgormstore"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/infrastructure/redisdb"
	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/infrastructure/web"
	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Backend names accepted by STORE_BACKEND and AUTH_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendLocal    = "local"
)

type Backends struct {
	Store string `toml:"store" env:"STORE_BACKEND" default:"supabase"`
	Auth  string `toml:"auth" env:"AUTH_BACKEND" default:"supabase"`
}

// Hosted reports whether either backend talks to the hosted service.
func (b Backends) Hosted() bool {
	return b.Store == BackendSupabase || b.Auth == BackendSupabase
}

// Local reports whether either backend keeps its data in SQLite.
func (b Backends) Local() bool {
	return b.Store == BackendSQLite || b.Auth == BackendLocal
}

func (b Backends) validate() error {
	switch b.Store {
	case BackendSupabase, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", b.Store)
	}
	switch b.Auth {
	case BackendSupabase, BackendLocal:
	default:
		return fmt.Errorf("unknown auth backend %q", b.Auth)
	}
	// Hosted rows are guarded by the service's row-level security, which only
	// recognises the service's own tokens.
	if b.Store == BackendSupabase && b.Auth != BackendSupabase {
		return fmt.Errorf("store backend %q requires auth backend %q", BackendSupabase, BackendSupabase)
	}
	return nil
}

// Auth holds settings for the sign-up and sign-in routes.
type Auth struct {
	RedirectURL string  `toml:"redirect_url" env:"AUTH_REDIRECT_URL"`
	RatePerSec  float64 `toml:"rate_per_sec" env:"AUTH_RATE_PER_SEC" default:"1"`
	RateBurst   int     `toml:"rate_burst" env:"AUTH_RATE_BURST" default:"5"`

	// TrustedProxies are the addresses and CIDR ranges whose X-Forwarded-For
	// header names the client for rate limiting. Empty means none.
	TrustedProxies []string `toml:"trusted_proxies" env:"AUTH_TRUSTED_PROXIES" separator:","`
}

// Settings is everything read from the config file and the environment.
type Settings struct {
	Backends Backends             `toml:"backends"`
	Auth     Auth                 `toml:"auth"`
	Log      logger.Options       `toml:"log"`
	Server   web.ServerConfig     `toml:"server"`
	Web      web.HandlerOptions   `toml:"web"`
	Supabase supabase.Options     `toml:"supabase"`
	Postgres postgresdb.Options   `toml:"postgres"`
	SQLite   sqlitedb.Options     `toml:"sqlite"`
	Redis    redisdb.Options      `toml:"redis"`
	Local    authgormstore.Config `toml:"local"`
}

// Load reads the optional TOML file at path and then the PREFIX_ environment
// variables, which take precedence. Hosted-service settings are only
// required when a hosted backend is selected.
func Load(prefix, path string) (Settings, error) {
	var s Settings
	if err := environment.LoadTOML(path, &s); err != nil {
		return Settings{}, err
	}

	sections := []any{
		&s.Backends,
		&s.Auth,
		&s.Log,
		&s.Server,
		&s.Web,
		&s.Postgres,
		&s.SQLite,
		&s.Redis,
		&s.Local,
	}
	for _, section := range sections {
		if err := environment.ParseEnvTags(prefix, section); err != nil {
			return Settings{}, err
		}
	}

	if err := s.Backends.validate(); err != nil {
		return Settings{}, err
	}

	if _, err := mid.ParseTrustedProxies(s.Auth.TrustedProxies); err != nil {
		return Settings{}, err
	}

	if s.Backends.Hosted() {
		if err := environment.ParseEnvTags(prefix, &s.Supabase); err != nil {
			return Settings{}, fmt.Errorf("hosted backend selected: %w", err)
		}
	}
	if s.Backends.Auth == BackendLocal && s.Local.Secret == "" {
		return Settings{}, fmt.Errorf("local auth selected: %s is not set",
			environment.GetNamespaceEnvKey(prefix, "LOCAL_JWT_SECRET"))
	}

	return s, nil
}
