// Package cache stores computed chart layouts.
//
// Keys are content addressed: a chart key hashes the catalog content
// together with the selections and view options, so an entry can never be
// stale. TTLs only bound disk and memory use.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one JSON file per entry, for CLI use.
//   - [RedisCache] shares entries between server replicas.
//   - [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long chart layouts are kept unless configured otherwise.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store keyed by strings.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
