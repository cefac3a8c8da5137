// Package sqlitedb opens the gorm SQLite database used when flowdesk runs
// without a hosted backend.
package sqlitedb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options is the exportable configuration struct
type Options struct {
	Path       string `toml:"path" env:"SQLITE_PATH" default:"flowdesk.db"`
	LogQueries bool   `toml:"log_queries" env:"SQLITE_LOG_QUERIES" default:"false"`
}

type options struct {
	log *logger.Logger
}

type Option func(*options)

// WithLogger routes gorm's query log through log when LogQueries is set.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func NewFromEnv(prefix string, opts ...Option) (*gorm.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sqlite config: %w", err)
	}
	return New(cfg, opts...)
}

// New opens the database at cfg.Path. An in-memory database is pinned to a
// single connection, otherwise every pooled connection would see its own
// empty database.
func New(cfg Options, opts ...Option) (*gorm.DB, error) {
	internal := &options{}
	for _, opt := range opts {
		opt(internal)
	}

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if cfg.LogQueries && internal.log != nil {
		gormLog = gormlogger.New(
			logger.NewStdLogger(internal.log, slog.LevelDebug),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Info,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	path := cfg.Path
	if path == "" {
		path = MemoryPath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  gormLog,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	if path == MemoryPath || strings.Contains(path, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// StatusCheck pings the underlying connection.
func StatusCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
