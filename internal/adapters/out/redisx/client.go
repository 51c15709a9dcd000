// Package redisx carries realtime fan-out and ingestion dedup over Redis.
// Realtime messages are outbox payloads published on one pub/sub channel;
// every connected stream subscribes to it.
package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to addr and checks the connection with a PING.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
