// Package cache provides pluggable result caching for the layout pipeline.
//
// The core computation is pure and cheap enough to rerun per invocation,
// but the CLI and the HTTP API benefit from skipping recomputation when the
// same dataset arrives repeatedly. Caching therefore lives entirely at this
// boundary: the interval, occupancy and stack packages never see it.
//
// Three backends are provided:
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Keys are derived with a [Keyer] from content hashes, so identical input
// always maps to the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
// Implementations must treat a missing key as (nil, false, nil), not as an
// error.
type Cache interface {
	// Get retrieves the value for key. The second return reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per entry kind. Layouts are cheap to recompute, so entries
// exist to absorb bursts (repeated identical requests), not to persist.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey keys a computed layout by the content hash of its
	// validated interval set.
	LayoutKey(intervalsHash string) string

	// ArtifactKey keys a rendered artifact by layout hash and format.
	ArtifactKey(layoutHash, format string) string
}

// DefaultKeyer generates namespaced SHA-256 keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(intervalsHash string) string {
	return hashKey("layout", intervalsHash)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash, format string) string {
	return hashKey("artifact", layoutHash, format)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// separating tenants on a shared Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(intervalsHash string) string {
	return k.prefix + k.inner.LayoutKey(intervalsHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, format)
}
