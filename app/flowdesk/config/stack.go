package config

import (
	"context"
	"fmt"

	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authgormstore"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo/stores/authreststore"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo/stores/sessionsmemorystore"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo/stores/sessionsredisstore"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/stores/tasksgormstore"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/stores/tasksreststore"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/infrastructure/redisdb"
	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"gorm.io/gorm"
)

// Repositories are the clients the applications drive.
type Repositories struct {
	Tasks    *tasksrepo.Repository
	Auth     *authrepo.Repository
	Sessions *sessionsrepo.Repository
}

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Stack is the set of opened backends. Close releases them in reverse order
// of opening.
type Stack struct {
	Repositories

	// JWTSecret, when set, lets the authenticate middleware verify tokens
	// without a round trip.
	JWTSecret []byte

	// Checks are keyed by dependency name.
	Checks map[string]Check

	closers []closer
}

type closer struct {
	name string
	fn   func()
}

func (s *Stack) onClose(name string, fn func()) {
	s.closers = append(s.closers, closer{name: name, fn: fn})
}

// Close releases every opened backend.
func (s *Stack) Close(log *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		log.Info("shutdown", "status", "closing", "service", c.name)
		c.fn()
	}
	s.closers = nil
}

// Open connects to the backends selected in settings. On error everything
// opened so far is closed again.
func Open(ctx context.Context, log *logger.Logger, settings Settings) (_ *Stack, err error) {
	stack := &Stack{Checks: map[string]Check{}}
	defer func() {
		if err != nil {
			stack.Close(log)
		}
	}()

	var client *supabase.Client
	if settings.Backends.Hosted() {
		client, err = supabase.New(settings.Supabase, supabase.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("configuring hosted service: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "supabase", "url", client.BaseURL())
	}

	var db *gorm.DB
	if settings.Backends.Local() {
		db, err = sqlitedb.New(settings.SQLite, sqlitedb.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("configuring sqlite: %w", err)
		}
		stack.onClose("sqlite", func() { _ = sqlitedb.Close(db) })
		stack.Checks["sqlite"] = func(ctx context.Context) error { return sqlitedb.StatusCheck(ctx, db) }
		log.InfoContext(ctx, "init", "service", "sqlite", "path", settings.SQLite.Path)
	}

	tasksStorer, err := openTaskStore(ctx, log, settings, stack, client, db)
	if err != nil {
		return nil, err
	}
	stack.Tasks = tasksrepo.NewRepository(log, tasksStorer)

	authStorer, err := openAuthStore(ctx, log, settings, stack, client, db)
	if err != nil {
		return nil, err
	}
	stack.Auth = authrepo.NewRepository(log, authStorer, authrepo.WithRedirectURL(settings.Auth.RedirectURL))

	sessionsStorer, err := openSessionStore(ctx, log, settings, stack)
	if err != nil {
		return nil, err
	}
	stack.Sessions = sessionsrepo.NewRepository(log, sessionsStorer)

	return stack, nil
}

func openTaskStore(ctx context.Context, log *logger.Logger, settings Settings, stack *Stack, client *supabase.Client, db *gorm.DB) (tasksrepo.Storer, error) {
	switch settings.Backends.Store {
	case BackendSupabase:
		return tasksreststore.NewStore(log, client), nil

	case BackendPostgres:
		pool, err := postgresdb.New(settings.Postgres, postgresdb.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("configuring postgres: %w", err)
		}
		stack.onClose("postgres", pool.Close)
		stack.Checks["postgres"] = func(ctx context.Context) error { return postgresdb.StatusCheck(ctx, pool) }
		log.InfoContext(ctx, "init", "service", "postgres")
		return taskspgxstore.NewStore(log, pool), nil

	case BackendSQLite:
		store := tasksgormstore.NewStore(log, db)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrating tasks table: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", settings.Backends.Store)
}

func openAuthStore(ctx context.Context, log *logger.Logger, settings Settings, stack *Stack, client *supabase.Client, db *gorm.DB) (authrepo.Storer, error) {
	switch settings.Backends.Auth {
	case BackendSupabase:
		if secret := client.JWTSecret(); secret != "" {
			stack.JWTSecret = []byte(secret)
		}
		return authreststore.NewStore(log, client), nil

	case BackendLocal:
		store, err := authgormstore.NewStore(log, db, settings.Local)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrating users table: %w", err)
		}
		stack.JWTSecret = []byte(settings.Local.Secret)
		return store, nil
	}
	return nil, fmt.Errorf("unknown auth backend %q", settings.Backends.Auth)
}

func openSessionStore(ctx context.Context, log *logger.Logger, settings Settings, stack *Stack) (sessionsrepo.Storer, error) {
	if !settings.Redis.Enabled() {
		log.InfoContext(ctx, "init", "service", "sessions", "store", "memory")
		return sessionsmemorystore.NewStore(), nil
	}

	client, err := redisdb.New(ctx, settings.Redis)
	if err != nil {
		return nil, fmt.Errorf("configuring redis: %w", err)
	}
	stack.onClose("redis", func() { _ = client.Close() })
	stack.Checks["redis"] = func(ctx context.Context) error { return redisdb.StatusCheck(ctx, client) }
	log.InfoContext(ctx, "init", "service", "sessions", "store", "redis", "addr", settings.Redis.Addr)
	return sessionsredisstore.NewStore(log, client), nil
}
