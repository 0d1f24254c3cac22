package domain

import "time"

// InventoryUnit is the stock row for one variant (or the product itself for
// single-variant products). Only the reservation path in storage may
// decrement it.
type InventoryUnit struct {
	VariantID string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
