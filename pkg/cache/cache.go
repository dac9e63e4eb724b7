// Package cache provides byte-level caching for downloaded flows and
// traces. The CLI uses the file-based backend under the XDG cache
// directory; deployments backed by a shared server can use the Redis
// backend instead.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a byte-level key-value store with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FlowKey derives the cache key for a flow stored on a registry server.
func FlowKey(id string) string {
	return "flow:" + id
}

// TraceKey derives the cache key for a run trace.
func TraceKey(runID int64) string {
	return fmt.Sprintf("trace:%d", runID)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
