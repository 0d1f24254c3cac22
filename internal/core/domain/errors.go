package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponExpired     = errors.New("coupon expired")
	ErrCouponNotEligible = errors.New("coupon not eligible for this customer")
	ErrOrderNotFound     = errors.New("order not found")
	// ErrVendorSplit means a cart line could not be assigned to a vendor
	// group, so no per-vendor order can be assembled from it.
	ErrVendorSplit = errors.New("cart item has no vendor")
	// ErrStatusConflict means the compare-and-swap on the order status lost
	// to a concurrent transition; the caller saw a stale status.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// StockShortage identifies one line item that could not be reserved.
type StockShortage struct {
	VariantID string `json:"variant_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// InsufficientStockError aggregates every shortage found in a checkout so
// the customer can be told exactly which products failed. The whole
// reservation rolls back when this is returned.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.VariantID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// InvalidTransitionError reports a status change outside the whitelist.
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}
