package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MembershipAdapter answers member-only coupon checks from the customers
// table. An unknown customer is simply not a member.
type MembershipAdapter struct {
	db *sql.DB
}

func NewMembershipAdapter(db *sql.DB) *MembershipAdapter {
	return &MembershipAdapter{db: db}
}

func (a *MembershipAdapter) IsMember(ctx context.Context, customerID string) (bool, error) {
	var isMember bool
	err := a.db.QueryRowContext(ctx,
		`SELECT is_member FROM customers WHERE id = ?`, customerID).Scan(&isMember)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return isMember, nil
}
