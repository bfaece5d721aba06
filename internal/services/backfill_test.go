package services

import (
	"context"
	"testing"

	"finanzas/internal/core"
)

func TestBackfillMigratesLegacyReminders(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	reconciler := NewBackfillReconciler(store)
	ctx := context.Background()

	once, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:   "Tax filing",
		DueDate: core.NewDate(2024, 4, 30),
		Amount:  core.Money{Cents: 15000},
	})
	if err != nil {
		t.Fatalf("create once: %v", err)
	}
	monthly, err := reminders.Create(ctx, "owner-2", CreateReminderInput{
		Title:     "Rent",
		DueDate:   core.NewDate(2024, 1, 31),
		Frequency: core.Monthly,
		Amount:    core.Money{Cents: 80000},
	})
	if err != nil {
		t.Fatalf("create monthly: %v", err)
	}

	if _, err := store.DB().Exec(`UPDATE reminders SET is_paid = 1 WHERE id IN (?, ?)`, once.ID, monthly.ID); err != nil {
		t.Fatalf("seed legacy state: %v", err)
	}

	report, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("run backfill: %v", err)
	}
	if report.Processed != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v, want 2 processed", report)
	}

	// The once reminder is retired with its due date kept as history.
	gotOnce, err := reminders.Get(ctx, "owner-1", once.ID)
	if err != nil {
		t.Fatalf("get once: %v", err)
	}
	if gotOnce.IsActive || !gotOnce.IsPaid {
		t.Errorf("once state active=%v paid=%v, want retired", gotOnce.IsActive, gotOnce.IsPaid)
	}
	if gotOnce.DueDate.String() != "2024-04-30" {
		t.Errorf("once due = %s, want unchanged", gotOnce.DueDate.String())
	}

	// The monthly reminder advances with end-of-month clamping.
	gotMonthly, err := reminders.Get(ctx, "owner-2", monthly.ID)
	if err != nil {
		t.Fatalf("get monthly: %v", err)
	}
	if !gotMonthly.IsActive || gotMonthly.IsPaid {
		t.Errorf("monthly state active=%v paid=%v, want rescheduled", gotMonthly.IsActive, gotMonthly.IsPaid)
	}
	if gotMonthly.DueDate.String() != "2024-02-29" {
		t.Errorf("monthly due = %s, want 2024-02-29", gotMonthly.DueDate.String())
	}

	for owner, id := range map[string]int64{"owner-1": once.ID, "owner-2": monthly.ID} {
		payments, err := reminders.ListPayments(ctx, owner, id)
		if err != nil {
			t.Fatalf("list payments: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("reminder %d payments = %d, want exactly 1", id, len(payments))
		}
	}
}

func TestBackfillRunTwiceIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	reconciler := NewBackfillReconciler(store)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:     "Subscription",
		DueDate:   core.NewDate(2024, 5, 10),
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.DB().Exec(`UPDATE reminders SET is_paid = 1 WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("seed legacy state: %v", err)
	}

	first, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Processed != 1 {
		t.Fatalf("first report = %+v, want 1 processed", first)
	}

	second, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Processed != 0 || second.Failed != 0 {
		t.Errorf("second report = %+v, want nothing processed", second)
	}

	// Even if the paid flag reappears, the existing payment row stops a
	// duplicate migration.
	if _, err := store.DB().Exec(`UPDATE reminders SET is_paid = 1 WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("re-seed legacy state: %v", err)
	}
	third, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.Processed != 0 || third.Skipped != 1 {
		t.Errorf("third report = %+v, want 1 skipped", third)
	}

	payments, err := reminders.ListPayments(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("payments = %d after repeated runs, want exactly 1", len(payments))
	}
}
