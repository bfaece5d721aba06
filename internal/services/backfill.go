package services

import (
	"context"
	"fmt"
	"log/slog"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// BackfillReconciler migrates reminders that were marked paid before the
// payment-history table existed: it synthesizes the missing audit row and
// applies the regular once/recurring transition. Safe to re-run: a reminder
// that already has any payment row is skipped.
type BackfillReconciler struct {
	store *storage.Store
}

func NewBackfillReconciler(store *storage.Store) *BackfillReconciler {
	return &BackfillReconciler{store: store}
}

// BackfillReport summarizes one run.
type BackfillReport struct {
	Processed int
	Skipped   int
	Failed    int
}

// Run reconciles every legacy paid reminder. Each reminder migrates in its
// own transaction; one failure does not abort the rest.
func (b *BackfillReconciler) Run(ctx context.Context) (BackfillReport, error) {
	legacy, err := b.store.ListPaidReminders(ctx)
	if err != nil {
		return BackfillReport{}, fmt.Errorf("list paid reminders: %w", err)
	}

	slog.InfoContext(ctx, "Backfilling reminder payment history",
		"candidates", len(legacy))

	var report BackfillReport
	for _, r := range legacy {
		migrated, err := b.reconcile(ctx, r)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to backfill reminder",
				"reminder_id", r.ID,
				"error", err)
			report.Failed++
			continue
		}
		if migrated {
			report.Processed++
		} else {
			report.Skipped++
		}
	}

	slog.InfoContext(ctx, "Backfill complete",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

func (b *BackfillReconciler) reconcile(ctx context.Context, r core.Reminder) (bool, error) {
	var migrated bool
	err := b.store.InTx(ctx, func(q *storage.Queries) error {
		// Idempotence guard: any existing payment row means this reminder
		// already lives in the new model.
		n, err := q.CountReminderPayments(ctx, r.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		if err := q.InsertBackfillPayment(ctx, r, r.UpdatedAt); err != nil {
			return err
		}

		settled := r.DueDate
		if r.Frequency.Recurring() {
			next := core.NextDueDate(settled, r.Frequency)
			if err := q.AdvanceReminder(ctx, r.OwnerID, r.ID, next, settled); err != nil {
				return err
			}
		} else {
			if err := q.DeactivateReminder(ctx, r.OwnerID, r.ID, settled); err != nil {
				return err
			}
		}
		migrated = true
		return nil
	})
	return migrated, err
}
