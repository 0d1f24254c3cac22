package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// CreateCheckout reserves stock, writes every order of the checkout with its
// items and clears the customer's cart, all in one transaction. The stock
// decrement is conditional (`stock >= ?`), so two checkouts racing for the
// last unit are serialized by the row lock and exactly one wins.
func (m *MySQLAdapter) CreateCheckout(ctx context.Context, customerID string, orders []domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var shortages []domain.StockShortage
	for _, o := range orders {
		for _, it := range o.Items {
			result, err := tx.ExecContext(ctx, `
				UPDATE inventory
				SET stock = stock - ?, updated_at = NOW()
				WHERE variant_id = ? AND stock >= ?`,
				it.Quantity, it.VariantID, it.Quantity,
			)
			if err != nil {
				return fmt.Errorf("reserve stock %s: %w", it.VariantID, err)
			}
			rows, _ := result.RowsAffected()
			if rows == 0 {
				var available int
				err := tx.QueryRowContext(ctx,
					`SELECT stock FROM inventory WHERE variant_id = ?`, it.VariantID,
				).Scan(&available)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("read stock %s: %w", it.VariantID, err)
				}
				shortages = append(shortages, domain.StockShortage{
					VariantID: it.VariantID,
					Available: available,
					Requested: it.Quantity,
				})
			}
		}
	}
	if len(shortages) > 0 {
		// Rolled back via the deferred Rollback; partial decrements above
		// never reach the table.
		return &domain.InsufficientStockError{Shortages: shortages}
	}

	for _, o := range orders {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (
				id, order_number, customer_id, vendor_id, status,
				subtotal, discount, shipping_fee, platform_fee, fee_rate_bps,
				vendor_earnings, total, coupon_code, payment_method,
				ship_name, ship_phone, ship_address, ship_ward, ship_district, ship_city, ship_note,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderNumber, o.CustomerID, o.VendorID, o.Status,
			o.Subtotal, o.Discount, o.ShippingFee, o.PlatformFee, o.FeeRateBps,
			o.VendorEarnings, o.Total, nullStr(o.CouponCode), o.PaymentMethod,
			o.Shipping.Name, o.Shipping.Phone, o.Shipping.Address,
			o.Shipping.Ward, o.Shipping.District, o.Shipping.City, nullStr(o.Shipping.Note),
			o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", o.ID, err)
		}

		for _, it := range o.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (
					id, order_id, product_id, product_name,
					variant_id, variant_name, price, quantity, subtotal
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, it.OrderID, it.ProductID, it.ProductName,
				it.VariantID, nullStr(it.VariantName), it.Price, it.Quantity, it.Subtotal,
			)
			if err != nil {
				return fmt.Errorf("insert order item %s: %w", it.ID, err)
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE customer_id = ?`, customerID,
	); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	var couponCode, shipNote sql.NullString

	err := m.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_id, vendor_id, status,
		       subtotal, discount, shipping_fee, platform_fee, fee_rate_bps,
		       vendor_earnings, total, coupon_code, payment_method,
		       ship_name, ship_phone, ship_address, ship_ward, ship_district, ship_city, ship_note,
		       created_at, updated_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.VendorID, &o.Status,
		&o.Subtotal, &o.Discount, &o.ShippingFee, &o.PlatformFee, &o.FeeRateBps,
		&o.VendorEarnings, &o.Total, &couponCode, &o.PaymentMethod,
		&o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address,
		&o.Shipping.Ward, &o.Shipping.District, &o.Shipping.City, &shipNote,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	o.CouponCode = couponCode.String
	o.Shipping.Note = shipNote.String

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name,
		       variant_id, variant_name, price, quantity, subtotal
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		var variantName sql.NullString
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.VariantID, &variantName, &it.Price, &it.Quantity, &it.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.VariantName = variantName.String
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &o, nil
}

// TransitionStatus swaps the status with a compare-and-swap on the expected
// current value. With restock set, the order's quantities are returned to
// inventory inside the same transaction.
func (m *MySQLAdapter) TransitionStatus(ctx context.Context, orderID string, from, to domain.Status, restock bool) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`,
		to, orderID, from,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = ?)`, orderID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrStatusConflict
	}

	if restock {
		_, err = tx.ExecContext(ctx, `
			UPDATE inventory i
			JOIN order_items oi ON oi.variant_id = i.variant_id
			SET i.stock = i.stock + oi.quantity, i.updated_at = NOW()
			WHERE oi.order_id = ?`,
			orderID,
		)
		if err != nil {
			return fmt.Errorf("restock: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := m.db.QueryRowContext(ctx, `
		SELECT id, code, discount_percent, expires_at, for_new_user, for_member, is_public, created_at
		FROM coupons WHERE LOWER(code) = LOWER(?)`, code,
	).Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.ExpiresAt, &c.ForNewUser, &c.ForMember, &c.IsPublic, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query coupon: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) HasDeliveredOrders(ctx context.Context, customerID string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE customer_id = ? AND status = ?)`,
		customerID, domain.StatusDelivered,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query delivered orders: %w", err)
	}
	return exists, nil
}

func (m *MySQLAdapter) VendorEarnings(ctx context.Context, vendorID string, from, to time.Time) (int64, int, error) {
	var total int64
	var count int
	err := m.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(vendor_earnings), 0), COUNT(*)
		FROM orders
		WHERE vendor_id = ?
		  AND created_at >= ? AND created_at < ?
		  AND status NOT IN (?, ?)`,
		vendorID, from, to, domain.StatusCancelled, domain.StatusRefunded,
	).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("query vendor earnings: %w", err)
	}
	return total, count, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
