package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// =====================================================
// REDIS IMPLEMENTATION
// =====================================================

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", key, err)
	}
	return s.Set(ctx, key, string(data), ttl)
}

func (s *redisStore) SetJSONKeepTTL(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", key, err)
	}
	// redis.KeepTTL leaves the key's existing expiration untouched
	if err := s.client.Set(ctx, key, string(data), redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}

	// an unparseable value is treated as a miss, not an error
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

func (s *redisStore) Has(ctx context.Context, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	n, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists: %w", err)
	}
	// EXISTS counts each existing key; all must be present
	return n == int64(len(keys)), nil
}

func (s *redisStore) TimeLeft(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("cache ttl %q: %w", key, err)
	}
	// -2 = key missing, -1 = no expiration set
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
