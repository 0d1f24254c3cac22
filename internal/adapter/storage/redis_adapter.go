package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

const (
	idempotencyKeyPrefix = "idem:"
	statusKeyPrefix      = "order_status:"

	idempotencyTTL = 24 * time.Hour
	statusTTL      = 5 * time.Minute
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// SetIdempotency claims a checkout request key via SETNX; false means a
// request with the same key already went through.
func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyTTL).Result()
}

func (r *RedisAdapter) CacheOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	return r.client.Set(ctx, statusKeyPrefix+orderID, string(status), statusTTL).Err()
}

func (r *RedisAdapter) GetOrderStatus(ctx context.Context, orderID string) (domain.Status, bool, error) {
	s, err := r.client.Get(ctx, statusKeyPrefix+orderID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.Status(s), true, nil
}
