package blob

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shopstream:blob:"

// RedisStore persists blobs as Redis strings. Useful when several storefront
// processes on one host should share a session's local state.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("blob/redis: ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ctx: ctx}, nil
}

func (s *RedisStore) Put(key string, version int, v interface{}) error {
	raw, err := seal(version, v)
	if err != nil {
		return err
	}
	// No TTL: blobs live until explicitly deleted (logout, clear).
	if err := s.rdb.Set(s.ctx, redisKeyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("blob/redis: set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(key string, version int, dest interface{}) (bool, error) {
	raw, err := s.rdb.Get(s.ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("blob/redis: get %s: %w", key, err)
	}
	return open(raw, version, dest)
}

func (s *RedisStore) Delete(key string) error {
	if err := s.rdb.Del(s.ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("blob/redis: del %s: %w", key, err)
	}
	return nil
}
