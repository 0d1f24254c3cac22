package port

import "context"

// MembershipChecker is the external membership collaborator consulted by
// member-only coupons.
type MembershipChecker interface {
	IsMember(ctx context.Context, customerID string) (bool, error)
}
