package cache

import (
	"context"
	"time"
)

// NullCache disables pull caching; every lookup misses and every store is
// discarded. The CLI switches to it under --no-cache.
type NullCache struct{}

// NewNullCache returns the disabled cache.
func NewNullCache() *NullCache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
