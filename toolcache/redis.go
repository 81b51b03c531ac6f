package toolcache

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// The redis store implements the Store interface using Redis as the backend.
// Keys are written with SETEX-style TTLs so expiry is enforced server side;
// counting and bulk deletion use SCAN rather than KEYS.

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{
		client: client,
	}
}

func (m *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "failed to get key from Redis")
	}
	return val, true, nil
}

func (m *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	err := m.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to store key in Redis")
	}
	return nil
}

func (m *redisStore) CountKeys(ctx context.Context, prefix string) (int, error) {
	count := 0
	iter := m.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, errors.Wrap(err, "failed to scan keys from Redis")
	}
	return count, nil
}

func (m *redisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string
	iter := m.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, errors.Wrap(err, "failed to scan keys from Redis")
	}
	if len(keys) == 0 {
		return 0, nil
	}
	deleted, err := m.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete keys from Redis")
	}
	return int(deleted), nil
}
