package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/port"
)

var ErrDuplicateCheckout = errors.New("duplicate checkout request")

// CheckoutInput is one customer's checkout as handed over by the cart
// service. ShippingFee applies to each resulting vendor order.
type CheckoutInput struct {
	RequestID     string               `json:"request_id"`
	CustomerID    string               `json:"customer_id"`
	Items         []domain.CartItem    `json:"items"`
	Shipping      domain.ShippingInfo  `json:"shipping"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CouponCode    string               `json:"coupon_code,omitempty"`
	ShippingFee   int64                `json:"shipping_fee"`
}

// CheckoutService turns a validated cart into one order per vendor. All
// vendor orders of a checkout share one database transaction: a stock
// shortage in any group aborts every order and leaves every stock row
// untouched.
type CheckoutService struct {
	db      port.DatabaseRepository
	cache   port.CacheRepository
	coupons *CouponEvaluator
	events  port.EventPublisher
	fees    domain.FeeCalculator
	now     func() time.Time
}

func NewCheckoutService(
	db port.DatabaseRepository,
	cache port.CacheRepository,
	coupons *CouponEvaluator,
	events port.EventPublisher,
	fees domain.FeeCalculator,
) *CheckoutService {
	return &CheckoutService{
		db:      db,
		cache:   cache,
		coupons: coupons,
		events:  events,
		fees:    fees,
		now:     time.Now,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) ([]domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, it := range in.Items {
		if it.VendorID == "" {
			return nil, fmt.Errorf("cart line %q: %w", it.ProductID, domain.ErrVendorSplit)
		}
	}

	idempotencyKey := "checkout:" + in.RequestID
	ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateCheckout
	}

	groups := domain.GroupByVendor(in.Items)

	subtotals := make([]int64, len(groups))
	var checkoutSubtotal int64
	for i, g := range groups {
		for _, it := range g {
			subtotals[i] += it.Price * int64(it.Quantity)
		}
		checkoutSubtotal += subtotals[i]
	}

	now := s.now()

	// One coupon evaluation per checkout, over the whole checkout subtotal.
	var discount int64
	if in.CouponCode != "" {
		discount, err = s.coupons.Evaluate(ctx, in.CouponCode, in.CustomerID, checkoutSubtotal, now)
		if err != nil {
			return nil, err
		}
	}

	// Pro-rate the discount across vendor groups by subtotal share. The
	// running floor allocation makes the shares sum to the discount exactly.
	shares := make([]int64, len(groups))
	if discount > 0 {
		var allocated, cum int64
		for i := range groups {
			cum += subtotals[i]
			shares[i] = discount*cum/checkoutSubtotal - allocated
			allocated += shares[i]
		}
	}

	orders := make([]domain.Order, 0, len(groups))
	for i, g := range groups {
		net := subtotals[i] - shares[i]
		fee, earnings := s.fees.Split(net)

		order := domain.Order{
			ID:             uuid.NewString(),
			OrderNumber:    newOrderNumber(now),
			CustomerID:     in.CustomerID,
			VendorID:       g[0].VendorID,
			Status:         in.PaymentMethod.InitialStatus(),
			Subtotal:       subtotals[i],
			Discount:       shares[i],
			ShippingFee:    in.ShippingFee,
			PlatformFee:    fee,
			FeeRateBps:     s.fees.RateBps(),
			VendorEarnings: earnings,
			Total:          net + in.ShippingFee,
			CouponCode:     in.CouponCode,
			PaymentMethod:  in.PaymentMethod,
			Shipping:       in.Shipping,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		for _, it := range g {
			order.Items = append(order.Items, domain.OrderItem{
				ID:          uuid.NewString(),
				OrderID:     order.ID,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				VariantID:   it.VariantID,
				VariantName: it.VariantName,
				Price:       it.Price,
				Quantity:    it.Quantity,
				Subtotal:    it.Price * int64(it.Quantity),
			})
		}

		orders = append(orders, order)
	}

	// Stock reservation, order/item inserts and the cart clear all commit
	// or roll back together.
	if err := s.db.CreateCheckout(ctx, in.CustomerID, orders); err != nil {
		return nil, err
	}

	for _, o := range orders {
		_ = s.cache.CacheOrderStatus(ctx, o.ID, o.Status)
		s.events.OrderCreated(o)
	}

	return orders, nil
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("VD-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
