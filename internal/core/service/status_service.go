package service

import (
	"context"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/port"
)

// StatusService governs the order lifecycle. Regular transitions go through
// the whitelist; the payment gateway paths (ConfirmPayment, CancelUnpaid)
// are the only way out of PENDING_PAYMENT. Every persisted change uses a
// compare-and-swap on the status read, so two near-simultaneous requests
// cannot both win against a stale value.
type StatusService struct {
	db     port.DatabaseRepository
	cache  port.CacheRepository
	events port.EventPublisher
}

func NewStatusService(db port.DatabaseRepository, cache port.CacheRepository, events port.EventPublisher) *StatusService {
	return &StatusService{db: db, cache: cache, events: events}
}

// Transition applies one whitelisted status change. A rejected transition
// mutates nothing.
func (s *StatusService) Transition(ctx context.Context, orderID string, to domain.Status) error {
	order, err := s.db.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if err := domain.ValidateTransition(order.Status, to); err != nil {
		return err
	}

	// Cancelling or refunding returns the reserved stock to the pool in
	// the same transaction as the status swap.
	restock := to == domain.StatusCancelled || to == domain.StatusRefunded
	if err := s.db.TransitionStatus(ctx, orderID, order.Status, to, restock); err != nil {
		return err
	}

	s.finish(ctx, orderID, order.Status, to)
	return nil
}

// ConfirmPayment is the gateway success callback: PENDING_PAYMENT becomes
// PENDING outside the transition table.
func (s *StatusService) ConfirmPayment(ctx context.Context, orderID string) error {
	if err := s.db.TransitionStatus(ctx, orderID, domain.StatusPendingPayment, domain.StatusPending, false); err != nil {
		return err
	}
	s.finish(ctx, orderID, domain.StatusPendingPayment, domain.StatusPending)
	return nil
}

// CancelUnpaid is the gateway failure path: the unpaid order is cancelled
// explicitly and its stock returned.
func (s *StatusService) CancelUnpaid(ctx context.Context, orderID string) error {
	if err := s.db.TransitionStatus(ctx, orderID, domain.StatusPendingPayment, domain.StatusCancelled, true); err != nil {
		return err
	}
	s.finish(ctx, orderID, domain.StatusPendingPayment, domain.StatusCancelled)
	return nil
}

// OrderStatus answers status polls from the Redis cache when it can,
// falling back to the database and refreshing the cache on a miss.
func (s *StatusService) OrderStatus(ctx context.Context, orderID string) (domain.Status, error) {
	if status, ok, err := s.cache.GetOrderStatus(ctx, orderID); err == nil && ok {
		return status, nil
	}

	order, err := s.db.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	_ = s.cache.CacheOrderStatus(ctx, orderID, order.Status)
	return order.Status, nil
}

func (s *StatusService) finish(ctx context.Context, orderID string, from, to domain.Status) {
	_ = s.cache.CacheOrderStatus(ctx, orderID, to)
	s.events.OrderStatusChanged(orderID, from, to)
}
