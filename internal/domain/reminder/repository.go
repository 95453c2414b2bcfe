package reminder

import "context"

// Ledger tracks which (subscription, due date) pairs have already produced
// a reminder, so a repeated sweep never re-emits the same pair.
type Ledger interface {
	// HasFired reports whether a reminder was already raised for the pair.
	HasFired(ctx context.Context, subscriptionID, dueDate string) (bool, error)
	// RecordFired marks the pair as fired. Recording an already-fired pair
	// is a no-op.
	RecordFired(ctx context.Context, subscriptionID, dueDate string) error
	// Purge removes all records for a subscription. Called exactly when
	// that subscription is deleted.
	Purge(ctx context.Context, subscriptionID string) error
}
