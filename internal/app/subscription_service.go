package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"subscription_tracker_bot/internal/domain/notify"
	"subscription_tracker_bot/internal/domain/reminder"
	"subscription_tracker_bot/internal/domain/subscription"
	idb "subscription_tracker_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ValidationError reports invalid user input on subscription creation. The
// operation is aborted with no state change and the problem is surfaced to
// the user as a notification event.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Input carries the user-supplied draft for a new subscription. Price and
// NextPayment arrive as strings, exactly as entered.
type Input struct {
	Name        string
	Price       string
	Cycle       subscription.Cycle
	NextPayment string
	Color       string
	Icon        string
}

// SubscriptionService owns all mutations of the subscription collection:
// creation, deletion (with cascading ledger purge) and due-date advancement
// on payment acknowledgment.
type SubscriptionService struct {
	subRepo  subscription.Repository
	ledger   reminder.Ledger
	notifier notify.Notifier
	logger   *logrus.Entry
	clock    Clock
}

func NewSubscriptionService(
	sr subscription.Repository,
	ledger reminder.Ledger,
	notifier notify.Notifier,
	logger *logrus.Entry,
	clock Clock,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  sr,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		clock:    clock,
	}
}

// Add validates the draft, assigns a fresh id and persists the new
// subscription. On validation failure it emits an error event and returns a
// *ValidationError without touching any state.
func (s *SubscriptionService) Add(ctx context.Context, input Input) (*subscription.Subscription, error) {
	price, vErr := validateInput(input)
	if vErr != nil {
		s.logger.WithField("field", vErr.Field).Warnf("Rejected subscription draft: %s", vErr.Reason)
		s.emit(notify.Event{
			Message:  "Please fill in all required fields: " + vErr.Error(),
			Severity: notify.SeverityError,
		})
		return nil, vErr
	}

	now := s.clock()
	sub := &subscription.Subscription{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Price:       price,
		Cycle:       input.Cycle,
		NextPayment: input.NextPayment,
		Color:       input.Color,
		Icon:        input.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	s.logger.WithField("subscription_id", sub.ID).Infof("Added subscription %q (%s, next payment %s)", sub.Name, sub.Cycle, sub.NextPayment)

	s.emit(notify.Event{
		Message:        fmt.Sprintf("Added %s subscription", sub.Name),
		Severity:       notify.SeveritySuccess,
		SubscriptionID: sub.ID,
	})
	return sub, nil
}

// Remove deletes the subscription and purges all of its reminder ledger
// records, so no dangling (subscription, due date) pairs remain. Unknown
// ids are a no-op.
func (s *SubscriptionService) Remove(ctx context.Context, id string) error {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrSubscriptionNotFound {
			s.logger.WithField("subscription_id", id).Warn("Remove requested for unknown subscription id")
			return nil
		}
		return fmt.Errorf("failed to look up subscription %s: %w", id, err)
	}

	if err := s.subRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, err)
	}
	if err := s.ledger.Purge(ctx, id); err != nil {
		return fmt.Errorf("failed to purge reminder ledger for subscription %s: %w", id, err)
	}
	s.logger.WithField("subscription_id", id).Infof("Deleted subscription %q and purged its ledger records", sub.Name)

	s.emit(notify.Event{
		Message:  "Subscription deleted",
		Severity: notify.SeverityInfo,
	})
	return nil
}

// MarkPaid acknowledges a payment: the subscription's next due date moves
// forward by one billing cycle, all other fields are left untouched. The
// reminder ledger is deliberately not consulted; the new date is a new
// ledger key, so the scheduler re-arms on its own. Unknown ids and
// unparseable due dates are no-ops.
func (s *SubscriptionService) MarkPaid(ctx context.Context, id string) error {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrSubscriptionNotFound {
			s.logger.WithField("subscription_id", id).Warn("MarkPaid requested for unknown subscription id")
			return nil
		}
		return fmt.Errorf("failed to look up subscription %s: %w", id, err)
	}

	due, err := subscription.ParseDate(sub.NextPayment)
	if err != nil {
		s.logger.WithField("subscription_id", id).Warnf("MarkPaid skipped: unparseable next payment date %q", sub.NextPayment)
		return nil
	}

	sub.NextPayment = subscription.FormatDate(subscription.Advance(due, sub.Cycle))
	sub.UpdatedAt = s.clock()
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", id, err)
	}
	s.logger.WithField("subscription_id", id).Infof("Marked %q as paid, next payment %s", sub.Name, sub.NextPayment)

	s.emit(notify.Event{
		Message:        fmt.Sprintf("Marked %s as paid. Next payment on %s", sub.Name, sub.NextPayment),
		Severity:       notify.SeveritySuccess,
		SubscriptionID: sub.ID,
	})
	return nil
}

// Get returns a single subscription by id.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.subRepo.GetByID(ctx, id)
}

// List returns the full subscription collection.
func (s *SubscriptionService) List(ctx context.Context) ([]*subscription.Subscription, error) {
	return s.subRepo.List(ctx)
}

// Now exposes the service's injected clock, so presentation code derives
// due-day counts from the same time source as the scheduler.
func (s *SubscriptionService) Now() time.Time {
	return s.clock()
}

func (s *SubscriptionService) emit(event notify.Event) {
	event.ID = uuid.NewString()
	if err := s.notifier.Notify(event); err != nil {
		s.logger.WithError(err).Error("Failed to deliver notification event")
	}
}

func validateInput(input Input) (float64, *ValidationError) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(input.Price), 64)
	if err != nil {
		return 0, &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if !input.Cycle.Valid() {
		return 0, &ValidationError{Field: "cycle", Reason: "must be weekly, monthly, quarterly or yearly"}
	}
	if _, err := subscription.ParseDate(input.NextPayment); err != nil {
		return 0, &ValidationError{Field: "next payment", Reason: "must be a date in YYYY-MM-DD form"}
	}
	return price, nil
}
