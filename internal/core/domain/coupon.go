package domain

import "time"

// Coupon is created by admins and read-only at checkout time; the engine
// never mutates it.
type Coupon struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"` // 1-100
	ExpiresAt       time.Time `json:"expires_at"`
	ForNewUser      bool      `json:"for_new_user"`
	ForMember       bool      `json:"for_member"`
	IsPublic        bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExpiredAt reports whether the coupon is past its expiry at the given
// instant. Exactly equal to ExpiresAt still counts as valid.
func (c Coupon) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// DiscountOn computes the discount amount for a subtotal, with the same
// half-up rounding as the commission calculator.
func (c Coupon) DiscountOn(subtotal int64) int64 {
	return divRound(subtotal*int64(c.DiscountPercent), 100)
}
