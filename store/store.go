// Package store defines the narrow expiring key-value contract the
// authentication core persists through. Pending links, rate-limit counters
// and the security log share one store under separate key namespaces; any
// backend with per-key expiry and an atomic compare-and-swap satisfies it.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
// Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("store: key not found")

// Store is the persistence contract for the authentication core.
// A ttl of zero or less means the key does not expire.
//
// Implementations must be safe for concurrent use. CompareAndSwap must be
// atomic: of any number of concurrent calls with the same old value, at most
// one succeeds.
type Store interface {
	// Set persists value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Increment adds one to the integer counter under key, creating it at 1,
	// and resets the key's expiry to ttl from now. Returns the new count.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// CompareAndSwap replaces the value under key with new only if the current
	// value equals old, resetting the expiry to ttl from now. It reports
	// whether the swap happened. A missing or expired key reports false.
	CompareAndSwap(ctx context.Context, key string, old, new []byte, ttl time.Duration) (bool, error)
}
