// Package cache provides time-bounded key/value stores.
package cache

import (
	"context"
	"time"
)

// Store is a key/value store whose entries expire after a fixed TTL.
type Store[V any] interface {
	// Get returns the value and true when a live entry exists.
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
	TTL() time.Duration
}
