package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/port"
)

// CouponEvaluator validates a coupon code against expiry and audience rules
// and computes the discount. It has no side effects: usage tracking, if any,
// belongs to the checkout commit.
type CouponEvaluator struct {
	db      port.DatabaseRepository
	members port.MembershipChecker
}

func NewCouponEvaluator(db port.DatabaseRepository, members port.MembershipChecker) *CouponEvaluator {
	return &CouponEvaluator{db: db, members: members}
}

// Evaluate returns the discount amount for the given checkout subtotal.
// Expiry is checked against the passed wall-clock instant, never cached.
func (e *CouponEvaluator) Evaluate(ctx context.Context, code, customerID string, subtotal int64, now time.Time) (int64, error) {
	coupon, err := e.db.FindCoupon(ctx, code)
	if err != nil {
		return 0, err
	}

	if coupon.ExpiredAt(now) {
		return 0, domain.ErrCouponExpired
	}

	if coupon.ForNewUser {
		has, err := e.db.HasDeliveredOrders(ctx, customerID)
		if err != nil {
			return 0, fmt.Errorf("new-user check: %w", err)
		}
		if has {
			return 0, domain.ErrCouponNotEligible
		}
	}

	if coupon.ForMember {
		ok, err := e.members.IsMember(ctx, customerID)
		if err != nil {
			return 0, fmt.Errorf("membership check: %w", err)
		}
		if !ok {
			return 0, domain.ErrCouponNotEligible
		}
	}

	return coupon.DiscountOn(subtotal), nil
}
