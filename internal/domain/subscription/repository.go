package subscription

import "context"

// Repository defines the operations for persisting and retrieving
// Subscription entities.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Subscription, error)
}
