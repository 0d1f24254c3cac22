package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kiettt23/vendoor-sub002/internal/port"
)

// VendorStats is a read-side rollup for one vendor over a trailing window,
// compared against the immediately preceding window of equal length.
type VendorStats struct {
	VendorID         string  `json:"vendor_id"`
	Days             int     `json:"days"`
	Revenue          int64   `json:"revenue"`
	Orders           int     `json:"orders"`
	PrevRevenue      int64   `json:"prev_revenue"`
	PrevOrders       int     `json:"prev_orders"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	OrderChangePct   float64 `json:"order_change_pct"`
}

type AnalyticsService struct {
	db  port.DatabaseRepository
	now func() time.Time
}

func NewAnalyticsService(db port.DatabaseRepository) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

func (s *AnalyticsService) VendorStats(ctx context.Context, vendorID string, days int) (*VendorStats, error) {
	if days <= 0 {
		days = 7
	}

	now := s.now()
	from := now.AddDate(0, 0, -days)
	prevFrom := now.AddDate(0, 0, -2*days)

	revenue, count, err := s.db.VendorEarnings(ctx, vendorID, from, now)
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}

	prevRevenue, prevCount, err := s.db.VendorEarnings(ctx, vendorID, prevFrom, from)
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	return &VendorStats{
		VendorID:         vendorID,
		Days:             days,
		Revenue:          revenue,
		Orders:           count,
		PrevRevenue:      prevRevenue,
		PrevOrders:       prevCount,
		RevenueChangePct: pctChange(revenue, prevRevenue),
		OrderChangePct:   pctChange(int64(count), int64(prevCount)),
	}, nil
}

// pctChange uses +100 as a fixed sentinel when the previous period was zero
// and the current one is not; both zero means no change.
func pctChange(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}
