package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// NotifyWorker consumes payment events and emits notifications for them. It
// also runs a periodic scan for reminders that have gone past due without a
// payment, as a backup in case AMQP messages are lost.
type NotifyWorker struct {
	store *storage.Store
}

func NewNotifyWorker(store *storage.Store) *NotifyWorker {
	return &NotifyWorker{store: store}
}

// HandlePaymentEvent processes a single payment event from AMQP
func (w *NotifyWorker) HandlePaymentEvent(ctx context.Context, event *amqp.PaymentEvent) error {
	slog.InfoContext(ctx, "Processing payment event",
		"kind", event.Kind,
		"owner_id", event.OwnerID,
		"amount_cents", event.AmountCents)

	switch event.Kind {
	case amqp.KindReminderPaid:
		return w.notifyReminderPaid(ctx, event)
	case amqp.KindDebtPayment:
		return w.notifyDebtPayment(ctx, event)
	default:
		// Unknown kinds are acked and dropped, not requeued. A new
		// producer version must not wedge an old worker.
		slog.WarnContext(ctx, "Unknown payment event kind, dropping",
			"kind", event.Kind,
			"owner_id", event.OwnerID)
		return nil
	}
}

func (w *NotifyWorker) notifyReminderPaid(ctx context.Context, event *amqp.PaymentEvent) error {
	reminder, err := w.store.GetReminder(ctx, event.OwnerID, event.ReminderID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between publish and consume. Nothing to notify about.
		slog.WarnContext(ctx, "Reminder no longer exists, skipping notification",
			"reminder_id", event.ReminderID,
			"owner_id", event.OwnerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get reminder for notification: %w", err)
	}

	slog.InfoContext(ctx, "Reminder payment notification",
		"reminder_id", reminder.ID,
		"owner_id", reminder.OwnerID,
		"title", reminder.Title,
		"amount_cents", event.AmountCents,
		"next_due", reminder.DueDate.String(),
		"active", reminder.IsActive)

	return nil
}

func (w *NotifyWorker) notifyDebtPayment(ctx context.Context, event *amqp.PaymentEvent) error {
	debt, err := w.store.GetDebt(ctx, event.OwnerID, event.DebtID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Debt no longer exists, skipping notification",
			"debt_id", event.DebtID,
			"owner_id", event.OwnerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get debt for notification: %w", err)
	}

	settled := debt.Remaining.Cents == 0

	slog.InfoContext(ctx, "Debt payment notification",
		"debt_id", debt.ID,
		"owner_id", debt.OwnerID,
		"name", debt.Name,
		"amount_cents", event.AmountCents,
		"remaining_cents", debt.Remaining.Cents,
		"settled", settled)

	return nil
}

// ScanOverdue notifies about active reminders whose due date has passed
// without a recorded payment. Safe to call repeatedly.
func (w *NotifyWorker) ScanOverdue(ctx context.Context, asOf time.Time) error {
	overdue, err := w.store.ListDueReminders(ctx, asOf)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	if len(overdue) == 0 {
		slog.InfoContext(ctx, "No overdue reminders found")
		return nil
	}

	slog.InfoContext(ctx, "Found overdue reminders", "count", len(overdue))

	for _, r := range overdue {
		slog.InfoContext(ctx, "Reminder overdue",
			"reminder_id", r.ID,
			"owner_id", r.OwnerID,
			"title", r.Title,
			"due_date", r.DueDate.String(),
			"amount_cents", r.Amount.Cents,
			"frequency", string(r.Frequency))
	}

	return nil
}

// RunOverdueScan runs ScanOverdue on the given interval until the context is
// cancelled.
func (w *NotifyWorker) RunOverdueScan(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Scan once at startup to recover from downtime.
	if err := w.ScanOverdue(ctx, time.Now().UTC()); err != nil {
		slog.ErrorContext(ctx, "Startup overdue scan failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := w.ScanOverdue(ctx, time.Now().UTC()); err != nil {
				slog.ErrorContext(ctx, "Overdue scan failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
