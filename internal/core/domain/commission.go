package domain

// FeeCalculator computes the platform's cut of a vendor subtotal. The rate
// is injected in basis points (200 = 2%) so it can differ per environment
// without touching call sites.
type FeeCalculator struct {
	rateBps int64
}

func NewFeeCalculator(rateBps int64) FeeCalculator {
	return FeeCalculator{rateBps: rateBps}
}

func (c FeeCalculator) RateBps() int64 {
	return c.rateBps
}

// Commission returns round-half-to-nearest(subtotal * rate). Subtotal is
// assumed validated non-negative by the caller.
func (c FeeCalculator) Commission(subtotal int64) int64 {
	return divRound(subtotal*c.rateBps, 10000)
}

// Split returns the commission and the vendor earnings. Earnings are derived
// by subtraction, never rounded on their own, so the two always sum back to
// the subtotal exactly.
func (c FeeCalculator) Split(subtotal int64) (commission, earnings int64) {
	commission = c.Commission(subtotal)
	return commission, subtotal - commission
}

// divRound divides non-negative n by positive d, rounding half up.
func divRound(n, d int64) int64 {
	return (n + d/2) / d
}
