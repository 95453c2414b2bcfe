package database

import (
	"context"
	"testing"

	"subscription_tracker_bot/internal/domain/subscription"
)

func TestInMemoryReminderLedgerIdempotence(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryReminderLedger()

	fired, err := ledger.HasFired(ctx, "sub-1", "2025-05-10")
	if err != nil || fired {
		t.Fatalf("fresh ledger should report not fired, got fired=%v err=%v", fired, err)
	}

	for i := 0; i < 2; i++ {
		if err := ledger.RecordFired(ctx, "sub-1", "2025-05-10"); err != nil {
			t.Fatalf("RecordFired failed: %v", err)
		}
	}
	fired, err = ledger.HasFired(ctx, "sub-1", "2025-05-10")
	if err != nil || !fired {
		t.Fatalf("expected fired after recording, got fired=%v err=%v", fired, err)
	}

	// Same subscription, different due date is a different key.
	fired, err = ledger.HasFired(ctx, "sub-1", "2025-06-10")
	if err != nil || fired {
		t.Fatalf("different due date must be a separate key, got fired=%v err=%v", fired, err)
	}
}

func TestInMemoryReminderLedgerPurge(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryReminderLedger()

	for _, dueDate := range []string{"2025-05-10", "2025-06-10"} {
		if err := ledger.RecordFired(ctx, "sub-1", dueDate); err != nil {
			t.Fatalf("RecordFired failed: %v", err)
		}
	}
	if err := ledger.RecordFired(ctx, "sub-2", "2025-05-10"); err != nil {
		t.Fatalf("RecordFired failed: %v", err)
	}

	if err := ledger.Purge(ctx, "sub-1"); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	for _, dueDate := range []string{"2025-05-10", "2025-06-10"} {
		fired, err := ledger.HasFired(ctx, "sub-1", dueDate)
		if err != nil || fired {
			t.Errorf("expected sub-1/%s purged, got fired=%v err=%v", dueDate, fired, err)
		}
	}
	fired, err := ledger.HasFired(ctx, "sub-2", "2025-05-10")
	if err != nil || !fired {
		t.Errorf("purge must not touch other subscriptions, got fired=%v err=%v", fired, err)
	}
}

func TestInMemorySubscriptionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemorySubscriptionRepository()

	if _, err := repo.GetByID(ctx, "missing"); err != ErrSubscriptionNotFound {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}

	sub := &subscription.Subscription{ID: "sub-1", Name: "Netflix", Price: 15.99, Cycle: subscription.CycleMonthly, NextPayment: "2025-05-15"}
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the caller's struct must not leak into the store.
	sub.Name = "changed"
	stored, err := repo.GetByID(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Name != "Netflix" {
		t.Errorf("repository must store a copy, got name %q", stored.Name)
	}

	stored.NextPayment = "2025-06-15"
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 || all[0].NextPayment != "2025-06-15" {
		t.Errorf("unexpected list contents: %+v", all)
	}

	if err := repo.Delete(ctx, "sub-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "sub-1"); err != ErrSubscriptionNotFound {
		t.Fatalf("expected ErrSubscriptionNotFound on double delete, got %v", err)
	}
	all, _ = repo.List(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty list after delete, got %+v", all)
	}

	if err := repo.Update(ctx, sub); err != ErrSubscriptionNotFound {
		t.Fatalf("expected ErrSubscriptionNotFound on update of deleted sub, got %v", err)
	}
}
