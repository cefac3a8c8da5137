// Package sessionsredisstore keeps session entries in Redis with a key TTL
// equal to the remaining token lifetime.
package sessionsredisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/infrastructure/redisdb"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flowdesk:session:"

type Store struct {
	log    *logger.Logger
	client *redisdb.Client
}

func NewStore(log *logger.Logger, client *redisdb.Client) *Store {
	return &Store{
		log:    log,
		client: client,
	}
}

func (s *Store) Put(ctx context.Context, key string, identity authrepo.UserIdentity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}

func (s *Store) Get(ctx context.Context, key string) (authrepo.UserIdentity, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return authrepo.UserIdentity{}, repositories.ErrNotFound
	}
	if err != nil {
		return authrepo.UserIdentity{}, err
	}

	var identity authrepo.UserIdentity
	if err := json.Unmarshal(data, &identity); err != nil {
		return authrepo.UserIdentity{}, fmt.Errorf("decode identity: %w", err)
	}
	return identity, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
