package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// New creates a redis client and verifies connectivity. A failed ping is
// returned to the caller; the engine degrades to uncached reads when the
// caller decides to continue without redis.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return client, err
	}
	return client, nil
}
