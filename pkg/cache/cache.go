// Package cache stores conversion artifacts between CLI runs.
//
// # Overview
//
// Converting an NFA dump is cheap, but rendering diagrams through Graphviz is
// not. The pipeline keys each artifact by a hash of the input bytes and the
// options that shaped it, so a repeated conversion of an unchanged file is
// served from disk.
//
// Two implementations are provided:
//
//   - [FileCache]: JSON entries with an expiry, sharded under a directory
//   - [NullCache]: a no-op used when caching is disabled
//
// Keys are produced by a [Keyer]. [ScopedKeyer] prefixes every key, which the
// CLI uses to separate entries written by different releases.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLArtifact is how long a rendered artifact stays valid.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired or unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
