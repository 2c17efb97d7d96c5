package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when the key has no entry.
var ErrCacheMiss = errors.New("cache miss")

// Store is the key-value port shared by the session and catalog caches.
// Implementations must be safe for concurrent use; single-key reads and
// writes rely on the backing store's own atomicity.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
