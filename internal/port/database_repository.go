package port

import (
	"context"
	"time"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

// DatabaseRepository is the relational store behind the engine. All
// invariant-bearing writes (stock reservation, order creation, status CAS)
// happen here inside single transactions.
type DatabaseRepository interface {
	// CreateCheckout persists every order of one checkout atomically:
	// stock is reserved per line item (conditional decrement), orders and
	// items are inserted, and the customer's cart is cleared — all in one
	// transaction. Any shortage rolls the whole thing back and returns
	// *domain.InsufficientStockError.
	CreateCheckout(ctx context.Context, customerID string, orders []domain.Order) error

	// GetOrder loads an order with its items, or domain.ErrOrderNotFound.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// TransitionStatus swaps the order status with a compare-and-swap on
	// the expected current value; a stale read loses with
	// domain.ErrStatusConflict. With restock set, the order's items are
	// returned to inventory in the same transaction.
	TransitionStatus(ctx context.Context, orderID string, from, to domain.Status, restock bool) error

	// FindCoupon looks a coupon up by case-insensitive code, or
	// domain.ErrCouponNotFound.
	FindCoupon(ctx context.Context, code string) (*domain.Coupon, error)

	// HasDeliveredOrders reports whether the customer has any prior
	// delivered order (used by new-user coupon eligibility).
	HasDeliveredOrders(ctx context.Context, customerID string) (bool, error)

	// VendorEarnings sums vendor earnings and counts orders created in
	// [from, to), excluding cancelled and refunded orders.
	VendorEarnings(ctx context.Context, vendorID string, from, to time.Time) (total int64, count int, err error)
}
