package app

import (
	"context"
	"fmt"

	"subscription_tracker_bot/internal/domain/notify"
	"subscription_tracker_bot/internal/domain/reminder"
	"subscription_tracker_bot/internal/domain/subscription"
	idb "subscription_tracker_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReminderService decides when payment reminders fire.
type ReminderService interface {
	// Sweep compares today against every subscription's next due date and
	// emits at most one reminder event per (subscription, due date) pair.
	Sweep(ctx context.Context) error
	// SendReminder emits an on-demand reminder for one subscription,
	// independent of the reminder window and the ledger.
	SendReminder(ctx context.Context, subscriptionID string) error
}

// ReminderServiceImpl implements ReminderService on top of the subscription
// collection and the reminder ledger.
type ReminderServiceImpl struct {
	subRepo    subscription.Repository
	ledger     reminder.Ledger
	notifier   notify.Notifier
	logger     *logrus.Entry
	clock      Clock
	windowDays int
}

func NewReminderService(
	sr subscription.Repository,
	ledger reminder.Ledger,
	notifier notify.Notifier,
	logger *logrus.Entry,
	clock Clock,
	windowDays int,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		subRepo:    sr,
		ledger:     ledger,
		notifier:   notifier,
		logger:     logger,
		clock:      clock,
		windowDays: windowDays,
	}
}

// Sweep runs one reminder pass. A subscription qualifies when its due date
// is between 0 and windowDays days away (inclusive) and the ledger has no
// record for the (subscription, due date) pair. Qualifying pairs are marked
// fired only after the event was delivered, so a delivery failure is
// retried on the next sweep. Problems with a single subscription never
// abort the pass.
func (s *ReminderServiceImpl) Sweep(ctx context.Context) error {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions for sweep: %w", err)
	}

	now := s.clock()
	fired := 0
	for _, sub := range subs {
		due, err := subscription.ParseDate(sub.NextPayment)
		if err != nil {
			// Malformed persisted dates are treated as never due rather
			// than wedging the whole sweep.
			s.logger.WithField("subscription_id", sub.ID).Warnf("Sweep skipping %q: unparseable next payment date %q", sub.Name, sub.NextPayment)
			continue
		}

		days := subscription.DaysUntil(now, due)
		if days < 0 || days > s.windowDays {
			continue
		}

		alreadyFired, err := s.ledger.HasFired(ctx, sub.ID, sub.NextPayment)
		if err != nil {
			s.logger.WithError(err).WithField("subscription_id", sub.ID).Error("Sweep failed to query reminder ledger")
			continue
		}
		if alreadyFired {
			continue
		}

		event := notify.Event{
			ID:             uuid.NewString(),
			Message:        dueMessage(sub.Name, days),
			Severity:       notify.SeverityWarning,
			SubscriptionID: sub.ID,
		}
		if err := s.notifier.Notify(event); err != nil {
			s.logger.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to deliver reminder, will retry on next sweep")
			continue
		}
		if err := s.ledger.RecordFired(ctx, sub.ID, sub.NextPayment); err != nil {
			s.logger.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to record fired reminder")
			continue
		}
		fired++
	}

	s.logger.WithFields(logrus.Fields{"subscriptions": len(subs), "fired": fired}).Debug("Reminder sweep finished")
	return nil
}

// SendReminder emits a success event confirming a reminder was sent for the
// given subscription, mirroring the manual "send reminder" action. Unknown
// ids are a no-op.
func (s *ReminderServiceImpl) SendReminder(ctx context.Context, subscriptionID string) error {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if err == idb.ErrSubscriptionNotFound {
			s.logger.WithField("subscription_id", subscriptionID).Warn("SendReminder requested for unknown subscription id")
			return nil
		}
		return fmt.Errorf("failed to look up subscription %s: %w", subscriptionID, err)
	}

	message := fmt.Sprintf("Reminder sent for %s", sub.Name)
	if due, err := subscription.ParseDate(sub.NextPayment); err == nil {
		message = fmt.Sprintf("Reminder sent for %s", dueMessage(sub.Name, subscription.DaysUntil(s.clock(), due)))
	}

	event := notify.Event{
		ID:             uuid.NewString(),
		Message:        message,
		Severity:       notify.SeveritySuccess,
		SubscriptionID: sub.ID,
	}
	if err := s.notifier.Notify(event); err != nil {
		return fmt.Errorf("failed to deliver reminder for subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func dueMessage(name string, days int) string {
	switch {
	case days == 0:
		return fmt.Sprintf("%s payment due today", name)
	case days == 1:
		return fmt.Sprintf("%s payment due in 1 day", name)
	default:
		return fmt.Sprintf("%s payment due in %d days", name, days)
	}
}
