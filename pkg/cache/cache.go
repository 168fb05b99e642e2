// Package cache stores finished layouts and rendered graphs between runs.
//
// Seeded builds are deterministic, so a layout is fully identified by the
// level it came from, the seed and the retry limits. [Keyer] turns those into
// cache keys; [Cache] backends store the encoded bytes:
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for API deployments
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote cache cannot be reached.
var ErrNetwork = errors.New("network error")

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLLayout is how long a built layout stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLRender is how long a rendered room graph stays cached.
	TTLRender = 30 * 24 * time.Hour
)
