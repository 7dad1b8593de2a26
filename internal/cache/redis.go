package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// Init connects to the Redis instance backing sessions and queues.
func Init(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", addr)
	return client, nil
}

// Alive reports whether the Redis connection is usable.
func Alive(ctx context.Context, client *redis.Client) bool {
	return client.Ping(ctx).Err() == nil
}
