package services

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

func TestMarkPaidOnceReminder(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:   "Car insurance",
		Amount:  core.Money{Cents: 12000},
		DueDate: core.NewDate(2025, 3, 15),
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if created.Frequency != core.Once {
		t.Fatalf("default frequency = %s, want once", created.Frequency)
	}

	got, err := reminders.MarkPaid(ctx, "owner-1", created.ID, "paid at the branch")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	if got.IsActive {
		t.Error("once reminder still active after payment")
	}
	if !got.IsPaid {
		t.Error("once reminder not flagged paid")
	}
	if got.DueDate.String() != "2025-03-15" {
		t.Errorf("due date = %s, want unchanged 2025-03-15", got.DueDate.String())
	}
	if got.LastPaid.String() != "2025-03-15" {
		t.Errorf("last paid = %s, want 2025-03-15", got.LastPaid.String())
	}

	payments, err := reminders.ListPayments(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want exactly 1", len(payments))
	}
	if payments[0].DueDate.String() != "2025-03-15" {
		t.Errorf("settled due date = %s, want 2025-03-15", payments[0].DueDate.String())
	}
	if payments[0].Notes != "paid at the branch" {
		t.Errorf("notes = %q", payments[0].Notes)
	}
}

func TestMarkPaidWeeklyAdvances(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:     "Cleaning service",
		Amount:    core.Money{Cents: 4000},
		DueDate:   core.NewDate(2025, 6, 2),
		Frequency: core.Weekly,
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	got, err := reminders.MarkPaid(ctx, "owner-1", created.ID, "")
	if err != nil {
		t.Fatalf("first mark paid: %v", err)
	}
	if got.DueDate.String() != "2025-06-09" {
		t.Errorf("due date = %s, want advanced to 2025-06-09", got.DueDate.String())
	}
	if !got.IsActive || got.IsPaid {
		t.Errorf("recurring reminder state after payment: active=%v paid=%v, want active and unpaid", got.IsActive, got.IsPaid)
	}
	if got.LastPaid.String() != "2025-06-02" {
		t.Errorf("last paid = %s, want the settled occurrence 2025-06-02", got.LastPaid.String())
	}

	got, err = reminders.MarkPaid(ctx, "owner-1", created.ID, "")
	if err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	if got.DueDate.String() != "2025-06-16" {
		t.Errorf("due date = %s, want 2025-06-16", got.DueDate.String())
	}

	payments, err := reminders.ListPayments(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(payments))
	}
	// Newest first.
	if payments[0].DueDate.String() != "2025-06-09" || payments[1].DueDate.String() != "2025-06-02" {
		t.Errorf("payment due dates = %s, %s", payments[0].DueDate.String(), payments[1].DueDate.String())
	}
}

func TestMarkPaidMonthlyClampsToEndOfMonth(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:     "Rent",
		Amount:    core.Money{Cents: 90000},
		DueDate:   core.NewDate(2024, 1, 31),
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	got, err := reminders.MarkPaid(ctx, "owner-1", created.ID, "")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got.DueDate.String() != "2024-02-29" {
		t.Errorf("due date = %s, want clamped leap-year 2024-02-29", got.DueDate.String())
	}
}

func TestUpdateDetailsRules(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:   "Gym",
		DueDate: core.NewDate(2025, 1, 10),
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	newTitle := "Gym membership"
	newAmount := int64(2900)
	got, err := reminders.UpdateDetails(ctx, "owner-1", created.ID, storage.UpdateReminderParams{Title: &newTitle, Amount: &newAmount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Gym membership" || got.Amount.Cents != 2900 {
		t.Errorf("got %+v", got)
	}

	bad := int64(-1)
	if _, err := reminders.UpdateDetails(ctx, "owner-1", created.ID, storage.UpdateReminderParams{Amount: &bad}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative amount err = %v, want ErrInvalidAmount", err)
	}

	badFreq := core.Frequency("fortnightly")
	if _, err := reminders.UpdateDetails(ctx, "owner-1", created.ID, storage.UpdateReminderParams{Frequency: &badFreq}); !errors.Is(err, core.ErrInvalidFrequency) {
		t.Errorf("bad frequency err = %v, want ErrInvalidFrequency", err)
	}

	empty := ""
	if _, err := reminders.UpdateDetails(ctx, "owner-1", created.ID, storage.UpdateReminderParams{Title: &empty}); !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("empty title err = %v, want ErrEmptyTitle", err)
	}
}

func TestReminderOwnerScoping(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store, nil)
	ctx := context.Background()

	created, err := reminders.Create(ctx, "owner-1", CreateReminderInput{
		Title:   "Mine",
		DueDate: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if _, err := reminders.Get(ctx, "owner-2", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner get = %v, want ErrNotFound", err)
	}
	if _, err := reminders.MarkPaid(ctx, "owner-2", created.ID, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner mark paid = %v, want ErrNotFound", err)
	}
	if _, err := reminders.ListPayments(ctx, "owner-2", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner payments = %v, want ErrNotFound", err)
	}

	// The failed foreign attempts must not have written anything.
	payments, err := reminders.ListPayments(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("payments = %d, want 0", len(payments))
	}
}
