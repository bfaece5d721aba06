package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finanzas/internal/core"
)

// UpdateReminderParams carries optional detail edits. is_paid and is_active
// are not editable here: those only move through the payment transition.
type UpdateReminderParams struct {
	Title     *string
	Amount    *int64
	DueDate   *core.Date
	Frequency *core.Frequency
}

func (q *Queries) CreateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO reminders (owner_id, title, amount_cents, due_date, frequency)
		VALUES (?, ?, ?, ?, ?)`,
		r.OwnerID, r.Title, r.Amount.Cents, r.DueDate.Time, string(r.Frequency))
	if err != nil {
		return core.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Reminder{}, fmt.Errorf("last insert id: %w", err)
	}
	return q.GetReminder(ctx, r.OwnerID, id)
}

func (q *Queries) GetReminder(ctx context.Context, ownerID string, id int64) (core.Reminder, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, amount_cents, due_date, frequency, is_paid, is_active, last_paid_date, created_at, updated_at
		FROM reminders WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanReminder(row)
}

func (q *Queries) ListReminders(ctx context.Context, ownerID string) ([]core.Reminder, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, title, amount_cents, due_date, frequency, is_paid, is_active, last_paid_date, created_at, updated_at
		FROM reminders WHERE owner_id = ? ORDER BY due_date ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []core.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (q *Queries) UpdateReminder(ctx context.Context, ownerID string, id int64, p UpdateReminderParams) error {
	var due any
	if p.DueDate != nil {
		due = p.DueDate.Time
	}
	var freq any
	if p.Frequency != nil {
		freq = string(*p.Frequency)
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE reminders
		SET title = COALESCE(?, title),
		    amount_cents = COALESCE(?, amount_cents),
		    due_date = COALESCE(?, due_date),
		    frequency = COALESCE(?, frequency),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		p.Title, p.Amount, due, freq, id, ownerID)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return requireRow(res)
}

// AdvanceReminder moves a recurring reminder to its next occurrence after a
// payment: new due date, last paid date = the due date just settled.
func (q *Queries) AdvanceReminder(ctx context.Context, ownerID string, id int64, next, lastPaid core.Date) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE reminders
		SET due_date = ?, last_paid_date = ?, is_paid = 0, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		next.Time, lastPaid.Time, id, ownerID)
	if err != nil {
		return fmt.Errorf("advance reminder: %w", err)
	}
	return requireRow(res)
}

// DeactivateReminder settles a once reminder: it goes inactive and keeps its
// due date as the historical record.
func (q *Queries) DeactivateReminder(ctx context.Context, ownerID string, id int64, lastPaid core.Date) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE reminders
		SET is_active = 0, is_paid = 1, last_paid_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		lastPaid.Time, id, ownerID)
	if err != nil {
		return fmt.Errorf("deactivate reminder: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) DeleteReminder(ctx context.Context, ownerID string, id int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) InsertReminderPayment(ctx context.Context, p core.ReminderPayment) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO reminder_payments (reminder_id, owner_id, amount_cents, due_date, paid_date, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ReminderID, p.OwnerID, p.Amount.Cents, p.DueDate.Time, p.PaidDate, p.Notes)
	if err != nil {
		return fmt.Errorf("insert reminder payment: %w", err)
	}
	return nil
}

func (q *Queries) ListReminderPayments(ctx context.Context, reminderID int64) ([]core.ReminderPayment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, reminder_id, owner_id, amount_cents, due_date, paid_date, notes, created_at
		FROM reminder_payments WHERE reminder_id = ? ORDER BY paid_date DESC`, reminderID)
	if err != nil {
		return nil, fmt.Errorf("list reminder payments: %w", err)
	}
	defer rows.Close()

	var payments []core.ReminderPayment
	for rows.Next() {
		var (
			p   core.ReminderPayment
			due sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.ReminderID, &p.OwnerID, &p.Amount.Cents,
			&due, &p.PaidDate, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder payment: %w", err)
		}
		p.DueDate = core.Date{Time: due.Time}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (q *Queries) CountReminderPayments(ctx context.Context, reminderID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminder_payments WHERE reminder_id = ?`, reminderID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reminder payments: %w", err)
	}
	return n, nil
}

// ListDueReminders returns active, unpaid reminders due on or before asOf,
// across all owners. The notification worker uses it for its periodic scan.
func (q *Queries) ListDueReminders(ctx context.Context, asOf time.Time) ([]core.Reminder, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, title, amount_cents, due_date, frequency, is_paid, is_active, last_paid_date, created_at, updated_at
		FROM reminders WHERE is_active = 1 AND is_paid = 0 AND due_date <= ? ORDER BY due_date ASC`, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []core.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// ListPaidReminders returns every reminder still flagged is_paid, across all
// owners. Only the backfill job uses it.
func (q *Queries) ListPaidReminders(ctx context.Context) ([]core.Reminder, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, title, amount_cents, due_date, frequency, is_paid, is_active, last_paid_date, created_at, updated_at
		FROM reminders WHERE is_paid = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list paid reminders: %w", err)
	}
	defer rows.Close()

	var reminders []core.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// InsertBackfillPayment synthesizes a payment row for a legacy paid reminder,
// using the reminder's own updated_at as the audit timestamp.
func (q *Queries) InsertBackfillPayment(ctx context.Context, r core.Reminder, paidAt time.Time) error {
	return q.InsertReminderPayment(ctx, core.ReminderPayment{
		ReminderID: r.ID,
		OwnerID:    r.OwnerID,
		Amount:     r.Amount,
		DueDate:    r.DueDate,
		PaidDate:   paidAt,
	})
}

func scanReminder(row rowScanner) (core.Reminder, error) {
	var (
		r        core.Reminder
		due      sql.NullTime
		lastPaid sql.NullTime
	)
	err := row.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Amount.Cents, &due, &r.Frequency,
		&r.IsPaid, &r.IsActive, &lastPaid, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, core.ErrNotFound
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("scan reminder: %w", err)
	}
	r.DueDate = core.Date{Time: due.Time}
	if lastPaid.Valid {
		r.LastPaid = core.Date{Time: lastPaid.Time}
	}
	return r, nil
}
