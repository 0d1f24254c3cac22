package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kiettt23/vendoor-sub002/internal/adapter/storage"
	"github.com/kiettt23/vendoor-sub002/internal/config"
	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/core/service"
)

const (
	variantID     = "stress-variant"
	vendorID      = "stress-vendor"
	unitPrice     = 50000
	initialStock  = 20
	totalRequests = 50
)

// noopPublisher keeps the probe self-contained; a Kafka broker is not
// part of the oversell measurement.
type noopPublisher struct{}

func (noopPublisher) OrderCreated(domain.Order)                               {}
func (noopPublisher) OrderStatusChanged(string, domain.Status, domain.Status) {}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(100)
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, PoolSize: 100})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	db.ExecContext(ctx, `DELETE oi FROM order_items oi JOIN orders o ON oi.order_id = o.id WHERE o.customer_id LIKE 'stress-user-%'`)
	db.ExecContext(ctx, `DELETE FROM orders WHERE customer_id LIKE 'stress-user-%'`)
	if _, err := db.ExecContext(ctx, `
		INSERT INTO inventory (variant_id, stock) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE stock = ?`, variantID, initialStock, initialStock); err != nil {
		log.Fatalf("failed to seed stock: %v", err)
	}
	keys, _ := rdb.Keys(ctx, "idem:checkout:stress-*").Result()
	for _, k := range keys {
		rdb.Del(ctx, k)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	members := storage.NewMembershipAdapter(db)

	fees := domain.NewFeeCalculator(cfg.PlatformFeeBps)
	coupons := service.NewCouponEvaluator(mysqlAdapter, members)
	checkout := service.NewCheckoutService(mysqlAdapter, redisAdapter, coupons, noopPublisher{}, fees)

	var successCount atomic.Int32
	var stockFailCount atomic.Int32
	var otherFailCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := checkout.Checkout(ctx, service.CheckoutInput{
				RequestID:  fmt.Sprintf("stress-%s", uuid.NewString()),
				CustomerID: fmt.Sprintf("stress-user-%d", i),
				Items: []domain.CartItem{{
					ProductID:   "stress-product",
					ProductName: "Stress Product",
					VendorID:    vendorID,
					VariantID:   variantID,
					Price:       unitPrice,
					Quantity:    1,
				}},
				Shipping: domain.ShippingInfo{
					Name: "Stress", Phone: "0900000000", Address: "1 Stress St",
					Ward: "W", District: "D", City: "C",
				},
				PaymentMethod: domain.PaymentCOD,
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case isStockErr(err):
				stockFailCount.Add(1)
			default:
				otherFailCount.Add(1)
				log.Printf("request %d unexpected error: %v", i, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	stockFail := stockFailCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:     %d\n", initialStock)
	fmt.Printf("Total Requests:    %d\n", totalRequests)
	fmt.Printf("Successful:        %d\n", success)
	fmt.Printf("Out of Stock:      %d\n", stockFail)
	fmt.Printf("Other Failures:    %d\n", otherFailCount.Load())
	fmt.Printf("Duration:          %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && stockFail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d orders succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, stockFail)
	}

	var finalStock int
	db.QueryRowContext(ctx, `SELECT stock FROM inventory WHERE variant_id = ?`, variantID).Scan(&finalStock)
	fmt.Printf("Final Stock: %d\n", finalStock)

	if finalStock == 0 {
		fmt.Println("PASS: Stock depleted to 0, no oversell")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", finalStock)
	}
}

func isStockErr(err error) bool {
	var stockErr *domain.InsufficientStockError
	return errors.As(err, &stockErr)
}
