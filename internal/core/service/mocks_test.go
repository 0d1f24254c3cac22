package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

// Mock DatabaseRepository. CreateCheckout mirrors the real adapter's
// all-or-nothing semantics: shortages are collected across the whole batch
// and nothing is mutated when any item falls short.
type mockDB struct {
	mu          sync.Mutex
	stock       map[string]int
	orders      map[string]*domain.Order
	coupons     map[string]domain.Coupon
	delivered   map[string]bool
	earnings    []earningRow
	cartCleared map[string]int

	// afterGetOrder runs between the status read and the CAS write, to
	// simulate a concurrent transition.
	afterGetOrder func()
}

type earningRow struct {
	vendorID  string
	earnings  int64
	status    domain.Status
	createdAt time.Time
}

func newMockDB() *mockDB {
	return &mockDB{
		stock:       make(map[string]int),
		orders:      make(map[string]*domain.Order),
		coupons:     make(map[string]domain.Coupon),
		delivered:   make(map[string]bool),
		cartCleared: make(map[string]int),
	}
}

func (m *mockDB) CreateCheckout(ctx context.Context, customerID string, orders []domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var shortages []domain.StockShortage
	for _, o := range orders {
		for _, it := range o.Items {
			if m.stock[it.VariantID] < it.Quantity {
				shortages = append(shortages, domain.StockShortage{
					VariantID: it.VariantID,
					Available: m.stock[it.VariantID],
					Requested: it.Quantity,
				})
			}
		}
	}
	if len(shortages) > 0 {
		return &domain.InsufficientStockError{Shortages: shortages}
	}

	for i := range orders {
		o := orders[i]
		for _, it := range o.Items {
			m.stock[it.VariantID] -= it.Quantity
		}
		m.orders[o.ID] = &o
	}
	m.cartCleared[customerID]++
	return nil
}

func (m *mockDB) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	o, ok := m.orders[orderID]
	if !ok {
		m.mu.Unlock()
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	m.mu.Unlock()

	if m.afterGetOrder != nil {
		m.afterGetOrder()
	}
	return &cp, nil
}

func (m *mockDB) TransitionStatus(ctx context.Context, orderID string, from, to domain.Status, restock bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != from {
		return domain.ErrStatusConflict
	}
	o.Status = to
	if restock {
		for _, it := range o.Items {
			m.stock[it.VariantID] += it.Quantity
		}
	}
	return nil
}

func (m *mockDB) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coupons[strings.ToLower(code)]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return &c, nil
}

func (m *mockDB) HasDeliveredOrders(ctx context.Context, customerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delivered[customerID], nil
}

func (m *mockDB) VendorEarnings(ctx context.Context, vendorID string, from, to time.Time) (int64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	var count int
	for _, r := range m.earnings {
		if r.vendorID != vendorID || r.status == domain.StatusCancelled || r.status == domain.StatusRefunded {
			continue
		}
		if r.createdAt.Before(from) || !r.createdAt.Before(to) {
			continue
		}
		total += r.earnings
		count++
	}
	return total, count, nil
}

func (m *mockDB) addCoupon(c domain.Coupon) {
	m.coupons[strings.ToLower(c.Code)] = c
}

func (m *mockDB) order(id string) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.orders[id]
}

// Mock CacheRepository.
type mockCache struct {
	mu          sync.Mutex
	idempotency map[string]bool
	statuses    map[string]domain.Status
}

func newMockCache() *mockCache {
	return &mockCache{
		idempotency: make(map[string]bool),
		statuses:    make(map[string]domain.Status),
	}
}

func (m *mockCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idempotency[key] {
		return false, nil
	}
	m.idempotency[key] = true
	return true, nil
}

func (m *mockCache) CacheOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[orderID] = status
	return nil
}

func (m *mockCache) GetOrderStatus(ctx context.Context, orderID string) (domain.Status, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[orderID]
	return s, ok, nil
}

// Mock MembershipChecker.
type mockMembers struct {
	members map[string]bool
}

func (m *mockMembers) IsMember(ctx context.Context, customerID string) (bool, error) {
	return m.members[customerID], nil
}

// Mock EventPublisher.
type statusChange struct {
	orderID  string
	from, to domain.Status
}

type mockEvents struct {
	mu      sync.Mutex
	created []domain.Order
	changed []statusChange
}

func (m *mockEvents) OrderCreated(order domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, order)
}

func (m *mockEvents) OrderStatusChanged(orderID string, from, to domain.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, statusChange{orderID: orderID, from: from, to: to})
}
