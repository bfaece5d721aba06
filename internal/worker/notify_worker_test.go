package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

func newTestWorker(t *testing.T) (*NotifyWorker, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewNotifyWorker(store), store
}

func TestHandlePaymentEventUnknownKindDropped(t *testing.T) {
	w, _ := newTestWorker(t)

	err := w.HandlePaymentEvent(context.Background(), &amqp.PaymentEvent{
		Kind:    "invoice.settled.v2",
		OwnerID: "owner-1",
	})
	if err != nil {
		t.Fatalf("unknown kind should be dropped without error, got %v", err)
	}
}

func TestHandlePaymentEventMissingReminderSkipped(t *testing.T) {
	w, _ := newTestWorker(t)

	err := w.HandlePaymentEvent(context.Background(), &amqp.PaymentEvent{
		Kind:       amqp.KindReminderPaid,
		OwnerID:    "owner-1",
		ReminderID: 999,
	})
	if err != nil {
		t.Fatalf("deleted reminder should not error the consumer, got %v", err)
	}
}

func TestHandlePaymentEventReminderPaid(t *testing.T) {
	w, store := newTestWorker(t)
	ctx := context.Background()

	reminder, err := store.CreateReminder(ctx, core.Reminder{
		OwnerID:   "owner-1",
		Title:     "Rent",
		Amount:    core.Money{Cents: 80000},
		DueDate:   core.NewDate(2025, 6, 1),
		Frequency: core.Monthly,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	err = w.HandlePaymentEvent(ctx, &amqp.PaymentEvent{
		Kind:        amqp.KindReminderPaid,
		OwnerID:     "owner-1",
		ReminderID:  reminder.ID,
		AmountCents: 80000,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}
}

func TestScanOverdue(t *testing.T) {
	w, store := newTestWorker(t)
	ctx := context.Background()

	seed := []core.Reminder{
		{OwnerID: "owner-1", Title: "Overdue", DueDate: core.NewDate(2025, 5, 1), Frequency: core.Once, IsActive: true},
		{OwnerID: "owner-1", Title: "Future", DueDate: core.NewDate(2025, 12, 1), Frequency: core.Once, IsActive: true},
	}
	for _, r := range seed {
		if _, err := store.CreateReminder(ctx, r); err != nil {
			t.Fatalf("seed reminder: %v", err)
		}
	}

	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	if err := w.ScanOverdue(ctx, asOf); err != nil {
		t.Fatalf("scan: %v", err)
	}

	// The scan reads through the same query the test can check directly.
	due, err := store.ListDueReminders(ctx, asOf)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].Title != "Overdue" {
		t.Errorf("due reminders = %+v, want only the overdue one", due)
	}
}
