// Package redisdb opens go-redis clients from configuration.
package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/redis/go-redis/v9"
)

type Client = redis.Client

// Options is the exportable configuration struct. An empty Addr means Redis
// is not in use.
type Options struct {
	Addr         string        `toml:"addr" env:"REDIS_ADDR"`
	Password     string        `toml:"password" env:"REDIS_PASSWORD"`
	DB           int           `toml:"db" env:"REDIS_DB" default:"0"`
	PoolSize     int           `toml:"pool_size" env:"REDIS_POOL_SIZE" default:"20"`
	DialTimeout  time.Duration `toml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `toml:"read_timeout" env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether an address was configured.
func (o Options) Enabled() bool {
	return o.Addr != ""
}

func NewFromEnv(prefix string) (*Client, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing redis config: %w", err)
	}
	return New(context.Background(), cfg)
}

// New connects and pings. The caller owns Close.
func New(ctx context.Context, cfg Options) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis address is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := StatusCheck(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// StatusCheck returns nil if it can successfully talk to redis.
func StatusCheck(ctx context.Context, client *Client) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return client.Ping(ctx).Err()
}
