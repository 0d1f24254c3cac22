package domain

import "testing"

func TestCommission_Rounding(t *testing.T) {
	calc := NewFeeCalculator(200) // 2%

	cases := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{100000, 2000},
		{123456, 2469}, // 2469.12 rounds down
		{123475, 2470}, // 2469.5 rounds half up
		{1, 0},
		{25, 1}, // 0.5 rounds up
		{130000, 2600},
	}

	for _, c := range cases {
		if got := calc.Commission(c.subtotal); got != c.want {
			t.Errorf("Commission(%d) = %d, want %d", c.subtotal, got, c.want)
		}
	}
}

func TestCommission_ConfigurableRate(t *testing.T) {
	calc := NewFeeCalculator(1000) // 10%

	if got := calc.Commission(100000); got != 10000 {
		t.Errorf("expected 10000, got %d", got)
	}
	if calc.RateBps() != 1000 {
		t.Errorf("expected rate 1000 bps, got %d", calc.RateBps())
	}
}

func TestSplit_NoRoundingLeak(t *testing.T) {
	calc := NewFeeCalculator(200)

	// Sweep a contiguous range so every rounding branch is hit.
	for subtotal := int64(0); subtotal <= 20000; subtotal++ {
		fee, earnings := calc.Split(subtotal)
		if fee+earnings != subtotal {
			t.Fatalf("split leak at %d: fee=%d earnings=%d", subtotal, fee, earnings)
		}
		if fee < 0 || earnings < 0 {
			t.Fatalf("negative split at %d: fee=%d earnings=%d", subtotal, fee, earnings)
		}
	}
}

func TestSplit_LargeSubtotals(t *testing.T) {
	calc := NewFeeCalculator(200)

	for _, subtotal := range []int64{999999999, 123456789, 50000000000} {
		fee, earnings := calc.Split(subtotal)
		if fee+earnings != subtotal {
			t.Errorf("split leak at %d: fee=%d earnings=%d", subtotal, fee, earnings)
		}
	}
}
