package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"subscription_tracker_bot/internal/domain/notify"
	"subscription_tracker_bot/internal/domain/subscription"
)

func TestAddValidation(t *testing.T) {
	valid := Input{Name: "Netflix", Price: "15.99", Cycle: subscription.CycleMonthly, NextPayment: "2025-05-15"}

	tests := []struct {
		name   string
		mutate func(in *Input)
		field  string
	}{
		{"empty name", func(in *Input) { in.Name = "  " }, "name"},
		{"unparseable price", func(in *Input) { in.Price = "abc" }, "price"},
		{"negative price", func(in *Input) { in.Price = "-1" }, "price"},
		{"unknown cycle", func(in *Input) { in.Cycle = "biweekly" }, "cycle"},
		{"empty date", func(in *Input) { in.NextPayment = "" }, "next payment"},
		{"malformed date", func(in *Input) { in.NextPayment = "15.05.2025" }, "next payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC))
			input := valid
			tt.mutate(&input)

			_, err := f.subs.Add(context.Background(), input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, vErr.Field)
			}

			stored, listErr := f.subRepo.List(context.Background())
			if listErr != nil {
				t.Fatalf("List failed: %v", listErr)
			}
			if len(stored) != 0 {
				t.Error("rejected draft must not be persisted")
			}
			if got := f.notifier.bySeverity(notify.SeverityError); len(got) != 1 {
				t.Errorf("expected 1 error event, got %d", len(got))
			}
		})
	}
}

func TestAddPersistsSubscription(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now)

	sub, err := f.subs.Add(context.Background(), Input{
		Name:        "  Netflix ",
		Price:       "15.99",
		Cycle:       subscription.CycleMonthly,
		NextPayment: "2025-05-15",
		Color:       "bg-red-500",
		Icon:        "🎬",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sub.ID == "" {
		t.Error("expected a fresh id to be assigned")
	}
	if sub.Name != "Netflix" {
		t.Errorf("expected trimmed name, got %q", sub.Name)
	}
	if sub.Price != 15.99 {
		t.Errorf("expected price 15.99, got %v", sub.Price)
	}
	if !sub.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt from the injected clock, got %v", sub.CreatedAt)
	}

	stored, err := f.subRepo.GetByID(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("subscription not persisted: %v", err)
	}
	if stored.NextPayment != "2025-05-15" || stored.Color != "bg-red-500" || stored.Icon != "🎬" {
		t.Errorf("stored subscription differs from draft: %+v", stored)
	}

	success := f.notifier.bySeverity(notify.SeveritySuccess)
	if len(success) != 1 || !strings.Contains(success[0].Message, "Added Netflix subscription") {
		t.Errorf("expected success event for the add, got %+v", success)
	}
}

func TestRemoveCascadesLedgerPurge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, time.May, 8, 10, 0, 0, 0, time.UTC))
	f.seed(t, "netflix", "Netflix", "2025-05-10", subscription.CycleMonthly)

	if err := f.ledger.RecordFired(ctx, "netflix", "2025-05-10"); err != nil {
		t.Fatalf("RecordFired failed: %v", err)
	}

	if err := f.subs.Remove(ctx, "netflix"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	stored, err := f.subRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stored) != 0 {
		t.Error("subscription should be deleted")
	}

	fired, err := f.ledger.HasFired(ctx, "netflix", "2025-05-10")
	if err != nil {
		t.Fatalf("ledger query failed: %v", err)
	}
	if fired {
		t.Error("ledger records must be purged with the subscription")
	}

	// A re-added subscription with the same id and due date can fire again.
	f.seed(t, "netflix", "Netflix", "2025-05-10", subscription.CycleMonthly)
	if err := f.reminders.Sweep(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if got := len(f.notifier.bySeverity(notify.SeverityWarning)); got != 1 {
		t.Fatalf("expected the re-added subscription to fire, got %d reminders", got)
	}
}

func TestRemoveUnknownIDNoop(t *testing.T) {
	f := newFixture(time.Date(2025, time.May, 8, 10, 0, 0, 0, time.UTC))
	if err := f.subs.Remove(context.Background(), "missing"); err != nil {
		t.Fatalf("expected no-op for unknown id, got %v", err)
	}
	if len(f.notifier.events) != 0 {
		t.Fatalf("expected no events, got %d", len(f.notifier.events))
	}
}

func TestMarkPaidAdvancesDueDateOnly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.seed(t, "netflix", "Netflix", "2025-05-15", subscription.CycleMonthly)

	if err := f.subs.MarkPaid(ctx, "netflix"); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	sub, err := f.subRepo.GetByID(ctx, "netflix")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if sub.NextPayment != "2025-06-15" {
		t.Errorf("expected next payment 2025-06-15, got %s", sub.NextPayment)
	}
	if sub.Name != "Netflix" || sub.Price != 9.99 || sub.Cycle != subscription.CycleMonthly {
		t.Errorf("MarkPaid must leave other fields untouched: %+v", sub)
	}
	if !sub.UpdatedAt.Equal(now) {
		t.Errorf("expected UpdatedAt from the injected clock, got %v", sub.UpdatedAt)
	}
}

func TestMarkPaidUnknownIDNoop(t *testing.T) {
	f := newFixture(time.Date(2025, time.May, 8, 10, 0, 0, 0, time.UTC))
	if err := f.subs.MarkPaid(context.Background(), "missing"); err != nil {
		t.Fatalf("expected no-op for unknown id, got %v", err)
	}
}

func TestMarkPaidMalformedDateNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, time.May, 8, 10, 0, 0, 0, time.UTC))
	f.seed(t, "broken", "Broken", "someday", subscription.CycleMonthly)

	if err := f.subs.MarkPaid(ctx, "broken"); err != nil {
		t.Fatalf("expected no-op for malformed date, got %v", err)
	}
	sub, err := f.subRepo.GetByID(ctx, "broken")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if sub.NextPayment != "someday" {
		t.Errorf("malformed date must be left as-is, got %s", sub.NextPayment)
	}
}
