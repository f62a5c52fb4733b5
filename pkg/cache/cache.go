package cache

import (
	"context"
	"time"
)

// Store is the key-value contract auth and other domains depend on.
// Backed by Redis in production; swappable in tests (miniredis).
//
// Single-key operations are atomic at the store level. Multi-step
// read-modify-write sequences built on top of Store are NOT atomic.
type Store interface {
	// Set stores a raw string value. ttl <= 0 means no expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetJSON marshals value and stores it with the given TTL.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetJSONKeepTTL overwrites the value of an existing key while
	// preserving whatever TTL the key already carries.
	SetJSONKeepTTL(ctx context.Context, key string, value interface{}) error

	// Get returns the raw value. found = false on cache miss.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// GetJSON unmarshals the stored value into dest.
	// found = false on miss or if the stored value is not valid JSON.
	GetJSON(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Del removes keys. Deleting an absent key is not an error.
	Del(ctx context.Context, keys ...string) error

	// Has reports whether ALL given keys exist.
	Has(ctx context.Context, keys ...string) (bool, error)

	// TimeLeft returns the remaining TTL of key.
	// hasTTL = false when the key is absent or has no expiration set.
	TimeLeft(ctx context.Context, key string) (left time.Duration, hasTTL bool, err error)
}
