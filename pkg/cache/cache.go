// Package cache stores Dockerfile contents read from release commits.
//
// Content at a commit hash never changes, so entries are written without an
// expiry by default and a warm cache lets repeated runs skip object lookups
// entirely.
//
// Implementations:
//   - [FileCache]: JSON files under a directory, for CLI use
//   - [NullCache]: stores nothing, used with --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
