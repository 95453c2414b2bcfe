package reminder

import "time"

// Record marks that a reminder has already been raised for a subscription's
// charge on a specific due date. The (SubscriptionID, DueDate) pair is the
// ledger key; records are never mutated once written.
type Record struct {
	SubscriptionID string
	DueDate        string // YYYY-MM-DD
	FiredAt        time.Time
}
