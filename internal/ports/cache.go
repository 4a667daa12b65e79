package ports

import (
	"context"
	"time"
)

// Cache is the secondary port over the key/value store used by the
// read-through layer. Implementations MUST treat a miss as a nil slice and
// nil error, never an error — only genuine transport/availability failures
// are errors, and callers degrade those to a loader call rather than
// failing the request (the store is authoritative, per the concurrency
// model).
type Cache interface {
	// Get returns the raw bytes stored at key, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes zero or more keys. Deleting a key that does not exist
	// is not an error (invalidate is idempotent on deletion).
	Delete(ctx context.Context, keys ...string) error
}
