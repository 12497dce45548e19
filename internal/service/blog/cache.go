package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheKey is the redis key holding a serialized blog.
func CacheKey(id uuid.UUID) string {
	return "blog:" + id.String()
}

// Invalidate drops the cached copy of a blog. Safe with a nil client.
func Invalidate(ctx context.Context, rdb *redis.Client, id uuid.UUID) {
	if rdb != nil {
		_ = rdb.Del(ctx, CacheKey(id)).Err()
	}
}
