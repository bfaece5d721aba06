package services

import (
	"context"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// ReminderService drives the reminder state machine. A payment appends one
// audit row and transitions the reminder in the same transaction: a once
// reminder goes inactive, a recurring one advances its due date.
type ReminderService struct {
	store  *storage.Store
	events *amqp.Client
}

func NewReminderService(store *storage.Store, events *amqp.Client) *ReminderService {
	return &ReminderService{store: store, events: events}
}

type CreateReminderInput struct {
	Title     string
	Amount    core.Money
	DueDate   core.Date
	Frequency core.Frequency
}

func (s *ReminderService) Create(ctx context.Context, ownerID string, in CreateReminderInput) (core.Reminder, error) {
	if in.Frequency == "" {
		in.Frequency = core.Once
	}
	reminder := core.Reminder{
		OwnerID:   ownerID,
		Title:     in.Title,
		Amount:    in.Amount,
		DueDate:   in.DueDate,
		Frequency: in.Frequency,
		IsActive:  true,
	}
	if err := reminder.Validate(); err != nil {
		return core.Reminder{}, err
	}

	created, err := s.store.CreateReminder(ctx, reminder)
	if err != nil {
		return core.Reminder{}, err
	}

	slog.InfoContext(ctx, "Reminder created",
		"reminder_id", created.ID,
		"title", created.Title,
		"due_date", created.DueDate.String(),
		"frequency", created.Frequency)

	return created, nil
}

func (s *ReminderService) Get(ctx context.Context, ownerID string, id int64) (core.Reminder, error) {
	return s.store.GetReminder(ctx, ownerID, id)
}

func (s *ReminderService) List(ctx context.Context, ownerID string) ([]core.Reminder, error) {
	return s.store.ListReminders(ctx, ownerID)
}

// UpdateDetails edits title/amount/due date/frequency. It is disjoint from
// the payment transition: callers express "mark paid" through MarkPaid, never
// through a details edit.
func (s *ReminderService) UpdateDetails(ctx context.Context, ownerID string, id int64, p storage.UpdateReminderParams) (core.Reminder, error) {
	if p.Title != nil {
		if err := (core.Reminder{Title: *p.Title, DueDate: core.NewDate(2000, 1, 1), Frequency: core.Once}).Validate(); err != nil {
			return core.Reminder{}, err
		}
	}
	if p.Amount != nil && *p.Amount < 0 {
		return core.Reminder{}, core.ErrInvalidAmount
	}
	if p.Frequency != nil {
		if err := p.Frequency.Validate(); err != nil {
			return core.Reminder{}, err
		}
	}
	if err := s.store.UpdateReminder(ctx, ownerID, id, p); err != nil {
		return core.Reminder{}, err
	}
	return s.store.GetReminder(ctx, ownerID, id)
}

func (s *ReminderService) Delete(ctx context.Context, ownerID string, id int64) error {
	// reminder_payments cascade via the foreign key
	return s.store.DeleteReminder(ctx, ownerID, id)
}

// MarkPaid settles the current due date. It appends the audit row and applies
// the state transition in one transaction; an audit row without its
// transition (or the reverse) is never observable.
func (s *ReminderService) MarkPaid(ctx context.Context, ownerID string, id int64, notes string) (core.Reminder, error) {
	var reminder core.Reminder
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetReminder(ctx, ownerID, id)
		if err != nil {
			return err
		}

		settled := current.DueDate
		if err := q.InsertReminderPayment(ctx, core.ReminderPayment{
			ReminderID: current.ID,
			OwnerID:    ownerID,
			Amount:     current.Amount,
			DueDate:    settled,
			PaidDate:   time.Now().UTC(),
			Notes:      notes,
		}); err != nil {
			return err
		}

		if current.Frequency.Recurring() {
			next := core.NextDueDate(settled, current.Frequency)
			if err := q.AdvanceReminder(ctx, ownerID, id, next, settled); err != nil {
				return err
			}
		} else {
			if err := q.DeactivateReminder(ctx, ownerID, id, settled); err != nil {
				return err
			}
		}

		reminder, err = q.GetReminder(ctx, ownerID, id)
		return err
	})
	if err != nil {
		return core.Reminder{}, err
	}

	slog.InfoContext(ctx, "Reminder marked paid",
		"reminder_id", reminder.ID,
		"title", reminder.Title,
		"frequency", reminder.Frequency,
		"next_due_date", reminder.DueDate.String(),
		"is_active", reminder.IsActive)

	s.publishPaymentEvent(ctx, amqp.NewReminderPaidEvent(ownerID, reminder.ID, reminder.Amount.Cents, reminder.Title))

	return reminder, nil
}

// ListPayments returns the payment history, newest first. Ownership of the
// reminder is verified first so foreign ids read as not found.
func (s *ReminderService) ListPayments(ctx context.Context, ownerID string, reminderID int64) ([]core.ReminderPayment, error) {
	if _, err := s.store.GetReminder(ctx, ownerID, reminderID); err != nil {
		return nil, err
	}
	return s.store.ListReminderPayments(ctx, reminderID)
}

func (s *ReminderService) publishPaymentEvent(ctx context.Context, event *amqp.PaymentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"kind", event.Kind,
			"error", err)
	}
}

func todayUTC() core.Date {
	now := time.Now().UTC()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}
