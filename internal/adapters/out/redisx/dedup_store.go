package redisx

import (
	"context"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DedupStore remembers processed ingestion events for ttl.
type DedupStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewDedupStore(rdb *redis.Client, scope string, ttl time.Duration) *DedupStore {
	return &DedupStore{rdb: rdb, prefix: "fulfillment:dedup:" + scope + ":", ttl: ttl}
}

// Seen reports whether key was marked processed within the last ttl.
func (s *DedupStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, errs.NewExternalServiceError("redis", err)
	}
	return n > 0, nil
}

// MarkProcessed records key for ttl. Marking a key again refreshes its ttl.
func (s *DedupStore) MarkProcessed(ctx context.Context, key string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, "1", s.ttl).Err(); err != nil {
		return errs.NewExternalServiceError("redis", err)
	}
	return nil
}
