// Package cache stores slicing results so that re-slicing an unchanged model
// with unchanged parameters and figures is instant.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for several viewers or a server
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a [Config], usually read from the settings
// file. Keys come from a [Keyer], which hashes every input that affects the
// slicing result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long slicing results are kept.
const DefaultTTL = 7 * 24 * time.Hour
