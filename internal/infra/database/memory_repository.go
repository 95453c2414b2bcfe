package database

import (
	"context"
	"sync"

	"subscription_tracker_bot/internal/domain/subscription"
)

// InMemorySubscriptionRepository is a map-backed subscription.Repository.
// It backs the tests and serves as the explicitly owned state container
// when no database is configured.
type InMemorySubscriptionRepository struct {
	mu    sync.RWMutex
	subs  map[string]*subscription.Subscription
	order []string
}

func NewInMemorySubscriptionRepository() *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{subs: make(map[string]*subscription.Subscription)}
}

func (r *InMemorySubscriptionRepository) Create(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subs[sub.ID]; !exists {
		r.order = append(r.order, sub.ID)
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *InMemorySubscriptionRepository) GetByID(_ context.Context, id string) (*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *InMemorySubscriptionRepository) Update(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return ErrSubscriptionNotFound
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *InMemorySubscriptionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(r.subs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemorySubscriptionRepository) List(_ context.Context) ([]*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]*subscription.Subscription, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.subs[id]
		subs = append(subs, &cp)
	}
	return subs, nil
}

// InMemoryReminderLedger is a map-backed reminder.Ledger keyed on the
// (subscription id, due date) pair.
type InMemoryReminderLedger struct {
	mu    sync.RWMutex
	fired map[ledgerKey]struct{}
}

type ledgerKey struct {
	subscriptionID string
	dueDate        string
}

func NewInMemoryReminderLedger() *InMemoryReminderLedger {
	return &InMemoryReminderLedger{fired: make(map[ledgerKey]struct{})}
}

func (l *InMemoryReminderLedger) HasFired(_ context.Context, subscriptionID, dueDate string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.fired[ledgerKey{subscriptionID, dueDate}]
	return ok, nil
}

func (l *InMemoryReminderLedger) RecordFired(_ context.Context, subscriptionID, dueDate string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired[ledgerKey{subscriptionID, dueDate}] = struct{}{}
	return nil
}

func (l *InMemoryReminderLedger) Purge(_ context.Context, subscriptionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.fired {
		if key.subscriptionID == subscriptionID {
			delete(l.fired, key)
		}
	}
	return nil
}
