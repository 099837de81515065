package store

import (
	"context"

	"billed/internal/core"
)

// Ports for outbound adapters.
type (
	// BillLister returns the bills visible to the user carried by ctx
	// (see core.WithUser). Without a user, every bill is returned.
	BillLister interface {
		List(ctx context.Context) ([]core.Bill, error)
	}

	// Store is the data-access collaborator of the bills page.
	Store interface {
		Bills() BillLister
	}

	// BillWriter persists submitted bills.
	BillWriter interface {
		InsertBill(ctx context.Context, b core.Bill) error
	}
)

// ScopeToUser keeps the bills the context user may see: admins and
// anonymous contexts see everything, anyone else only bills under their email.
func ScopeToUser(ctx context.Context, bills []core.Bill) []core.Bill {
	u, ok := core.UserFromContext(ctx)
	if !ok || u.SeesAllBills() {
		return bills
	}
	out := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Email == u.Email {
			out = append(out, b)
		}
	}
	return out
}
