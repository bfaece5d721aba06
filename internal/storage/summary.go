package storage

import (
	"context"
	"fmt"
	"time"
)

// OwnerSummary aggregates one owner's financial position.
type OwnerSummary struct {
	AccountCount      int64
	BalanceCents      int64
	OpenPayableCents  int64
	OpenReceivable    int64
	OpenDebtCount     int64
	UpcomingReminders int64
	PendingInvoices   int64
}

// Summary computes per-owner totals in a single pass per table. Upcoming
// reminders are active, unpaid and due within the given horizon.
func (q *Queries) Summary(ctx context.Context, ownerID string, horizon time.Time) (OwnerSummary, error) {
	var s OwnerSummary

	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(balance_cents), 0)
		FROM accounts WHERE owner_id = ?`, ownerID).
		Scan(&s.AccountCount, &s.BalanceCents)
	if err != nil {
		return OwnerSummary{}, fmt.Errorf("summarize accounts: %w", err)
	}

	err = q.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN direction = 'payable' THEN remaining_cents ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN direction = 'receivable' THEN remaining_cents ELSE 0 END), 0)
		FROM debts WHERE owner_id = ? AND remaining_cents > 0`, ownerID).
		Scan(&s.OpenDebtCount, &s.OpenPayableCents, &s.OpenReceivable)
	if err != nil {
		return OwnerSummary{}, fmt.Errorf("summarize debts: %w", err)
	}

	err = q.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM reminders
		WHERE owner_id = ? AND is_active = 1 AND is_paid = 0 AND due_date <= ?`,
		ownerID, horizon).
		Scan(&s.UpcomingReminders)
	if err != nil {
		return OwnerSummary{}, fmt.Errorf("summarize reminders: %w", err)
	}

	err = q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invoices WHERE owner_id = ? AND status = 'pending'`,
		ownerID).
		Scan(&s.PendingInvoices)
	if err != nil {
		return OwnerSummary{}, fmt.Errorf("summarize invoices: %w", err)
	}

	return s, nil
}
