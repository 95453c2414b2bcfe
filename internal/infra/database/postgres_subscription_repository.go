package database

import (
	"context"
	"database/sql"
	"fmt"

	"subscription_tracker_bot/internal/domain/subscription"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrSubscriptionNotFound = fmt.Errorf("subscription not found")

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `INSERT INTO subscriptions (id, name, price, cycle, next_payment, color, icon, created_at, updated_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Price, sub.Cycle, sub.NextPayment, sub.Color, sub.Icon, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT id, name, price, cycle, next_payment, color, icon, created_at, updated_at
               FROM subscriptions WHERE id = $1`
	sub := &subscription.Subscription{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.Name, &sub.Price, &sub.Cycle, &sub.NextPayment, &sub.Color, &sub.Icon, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error getting subscription by ID: %w", err)
	}
	return sub, nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `UPDATE subscriptions
               SET name = $2, price = $3, cycle = $4, next_payment = $5, color = $6, icon = $7, updated_at = $8
               WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Price, sub.Cycle, sub.NextPayment, sub.Color, sub.Icon, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected on subscription update: %w", err)
	}
	if rows == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected on subscription delete: %w", err)
	}
	if rows == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) List(ctx context.Context) ([]*subscription.Subscription, error) {
	query := `SELECT id, name, price, cycle, next_payment, color, icon, created_at, updated_at
               FROM subscriptions ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub := &subscription.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Price, &sub.Cycle, &sub.NextPayment, &sub.Color, &sub.Icon, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning subscription row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}
