package cache

import (
	"context"
	"time"
)

// Cache is a simple get/set cache used for hot, rarely changing reads
// like the fee catalog.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}
