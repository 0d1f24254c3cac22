package port

import (
	"context"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency claims a checkout request key, returns false if a
	// request with the same key was already accepted.
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// CacheOrderStatus refreshes the short-lived status read cache.
	CacheOrderStatus(ctx context.Context, orderID string, status domain.Status) error

	// GetOrderStatus returns the cached status; ok is false on a miss.
	GetOrderStatus(ctx context.Context, orderID string) (status domain.Status, ok bool, err error)
}
