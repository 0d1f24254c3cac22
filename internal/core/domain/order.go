package domain

import "time"

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPending        Status = "PENDING"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusRefunded       Status = "REFUNDED"
)

// validNext is the transition whitelist. PENDING_PAYMENT has no entry on
// purpose: that state is exited only through the payment confirmation
// callback, never through a regular transition request.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {StatusRefunded: true},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ValidateTransition checks a requested status change against the whitelist.
// It never mutates anything; persisting an accepted transition is the
// caller's job.
func ValidateTransition(from, to Status) error {
	if from == StatusPendingPayment {
		return &InvalidTransitionError{From: from, To: to, Reason: "awaiting payment"}
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether no transition can ever leave the status.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

// InitialStatus returns the status a freshly created order starts in.
// COD orders skip the payment gateway entirely.
func (m PaymentMethod) InitialStatus() Status {
	if m == PaymentCOD {
		return StatusPending
	}
	return StatusPendingPayment
}

// ShippingInfo is copied from the customer's address at checkout time and
// never updated afterwards, even if the customer edits their live address.
type ShippingInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
	Note     string `json:"note,omitempty"`
}

// Order is one vendor's share of a checkout. Amounts are VND, so plain
// integers with no minor unit. Invariants:
//
//	Total == Subtotal - Discount + ShippingFee
//	PlatformFee + VendorEarnings == Subtotal - Discount
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	CustomerID  string `json:"customer_id"`
	VendorID    string `json:"vendor_id"`
	Status      Status `json:"status"`
	Subtotal    int64  `json:"subtotal"`
	Discount    int64  `json:"discount"`
	ShippingFee int64  `json:"shipping_fee"`
	PlatformFee int64  `json:"platform_fee"`
	// FeeRateBps is the platform rate in effect at creation time, frozen
	// so later rate changes never reprice historical orders.
	FeeRateBps     int64         `json:"fee_rate_bps"`
	VendorEarnings int64         `json:"vendor_earnings"`
	Total          int64         `json:"total"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	Shipping       ShippingInfo  `json:"shipping"`
	Items          []OrderItem   `json:"items,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// OrderItem belongs to exactly one order and snapshots the product at
// purchase time; later price or name changes must not leak into it.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}
