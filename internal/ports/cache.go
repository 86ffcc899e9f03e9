package ports

import (
	"context"
	"time"
)

// Cache defines a TTL key-value capability for usecases. Adapters may be
// backed by SQLite or any external KV store; expiry is enforced on read.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
