package port

import "github.com/kiettt23/vendoor-sub002/internal/core/domain"

// EventPublisher emits order lifecycle events after the database commit.
// Publishing is fire-and-forget; delivery failures must never fail the
// operation that triggered them.
type EventPublisher interface {
	OrderCreated(order domain.Order)
	OrderStatusChanged(orderID string, from, to domain.Status)
}
