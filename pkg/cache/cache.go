// Package cache provides a byte cache for rendered base plates.
// Composing a base plate from a number and style is deterministic, so
// repeated runs can reuse encoded plate images instead of repainting
// them. Backends: file (default), redis, null.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// PlateTTL bounds base-plate entries. Rendering is deterministic,
	// so the TTL only limits disk growth.
	PlateTTL = 30 * 24 * time.Hour
)

// Cache stores encoded image bytes by key.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from render inputs.
type Keyer interface {
	// PlateKey identifies a rendered base plate by its number, style
	// and pixel size.
	PlateKey(number, style string, width, height int) string
}

// DefaultKeyer hashes render inputs into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlateKey generates a key for a base plate render.
func (k *DefaultKeyer) PlateKey(number, style string, width, height int) string {
	return hashKey("plate", number, style, width, height)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
