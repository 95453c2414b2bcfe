package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresReminderLedger implements reminder.Ledger on the reminder_ledger
// table. The composite primary key (subscription_id, due_date) is the
// at-most-once guarantee: RecordFired inserts with ON CONFLICT DO NOTHING,
// so recording an already-fired pair is a no-op.
type PostgresReminderLedger struct {
	db *sql.DB
}

func NewPostgresReminderLedger(db *sql.DB) *PostgresReminderLedger {
	return &PostgresReminderLedger{db: db}
}

func (r *PostgresReminderLedger) HasFired(ctx context.Context, subscriptionID, dueDate string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reminder_ledger WHERE subscription_id = $1 AND due_date = $2)`
	var fired bool
	if err := r.db.QueryRowContext(ctx, query, subscriptionID, dueDate).Scan(&fired); err != nil {
		return false, fmt.Errorf("error querying reminder ledger: %w", err)
	}
	return fired, nil
}

func (r *PostgresReminderLedger) RecordFired(ctx context.Context, subscriptionID, dueDate string) error {
	query := `INSERT INTO reminder_ledger (subscription_id, due_date, fired_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (subscription_id, due_date) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, subscriptionID, dueDate); err != nil {
		return fmt.Errorf("error recording fired reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderLedger) Purge(ctx context.Context, subscriptionID string) error {
	query := `DELETE FROM reminder_ledger WHERE subscription_id = $1`
	if _, err := r.db.ExecContext(ctx, query, subscriptionID); err != nil {
		return fmt.Errorf("error purging reminder ledger for subscription %s: %w", subscriptionID, err)
	}
	return nil
}
