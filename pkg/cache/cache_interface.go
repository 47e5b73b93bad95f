package cache

import (
	"context"
	"time"
)

// Cache is the contract of the read-through cache layer.
// Implementations can be swapped (Redis, in-memory) without touching the repositories.
type Cache interface {
	// Get loads key and unmarshals it into dest.
	// found = false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with a TTL. Non-string values are JSON encoded.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error
}
