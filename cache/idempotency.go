package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// idem:checkout:{key} -> order code
	KeyIdemCheckout = "idem:checkout:%s"

	TTLIdempotency = 24 * time.Hour
)

// NewClient opens a redis client with short dial and read timeouts
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// IdempotencyStore maps checkout idempotency keys to order codes in redis
type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: TTLIdempotency}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	code, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemCheckout, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

// Remember keeps the first order stored under a key
func (s *IdempotencyStore) Remember(ctx context.Context, key, orderCode string) error {
	return s.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemCheckout, key), orderCode, s.ttl).Err()
}
