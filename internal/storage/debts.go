package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finanzas/internal/core"
)

// UpdateDebtParams carries optional debt detail edits; nil leaves the column
// untouched. remaining_cents is deliberately absent: it only moves through
// DecrementRemaining.
type UpdateDebtParams struct {
	Name        *string
	DueDate     *core.Date
	Term        *int
	Installment *int64
}

func (q *Queries) CreateDebt(ctx context.Context, d core.Debt) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO debts (id, owner_id, name, total_cents, remaining_cents, direction, due_date, term, installment_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Name, d.Total.Cents, d.Remaining.Cents,
		string(d.Direction), nullDate(d.DueDate), nullInt(d.Term), nullInt64(d.Installment.Cents))
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

func (q *Queries) GetDebt(ctx context.Context, ownerID, id string) (core.Debt, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, total_cents, remaining_cents, direction, due_date, term, installment_cents, created_at, updated_at
		FROM debts WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanDebt(row)
}

func (q *Queries) ListDebts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, name, total_cents, remaining_cents, direction, due_date, term, installment_cents, created_at, updated_at
		FROM debts WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (q *Queries) UpdateDebt(ctx context.Context, ownerID, id string, p UpdateDebtParams) error {
	var due any
	if p.DueDate != nil {
		due = p.DueDate.Time
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE debts
		SET name = COALESCE(?, name),
		    due_date = COALESCE(?, due_date),
		    term = COALESCE(?, term),
		    installment_cents = COALESCE(?, installment_cents),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		p.Name, due, p.Term, p.Installment, id, ownerID)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return requireRow(res)
}

// DecrementRemaining applies a payment as a conditional update: the guard
// `remaining_cents >= amount` re-checks the overpayment invariant at write
// time, so two payments racing past the same validation read cannot both
// commit. Zero rows affected means the precondition no longer holds.
func (q *Queries) DecrementRemaining(ctx context.Context, ownerID, id string, amountCents int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE debts
		SET remaining_cents = remaining_cents - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ? AND remaining_cents >= ?`,
		amountCents, id, ownerID, amountCents)
	if err != nil {
		return false, fmt.Errorf("decrement remaining: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) DeleteDebt(ctx context.Context, ownerID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM debts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return requireRow(res)
}

func scanDebt(row rowScanner) (core.Debt, error) {
	var (
		d           core.Debt
		due         sql.NullTime
		term        sql.NullInt64
		installment sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Total.Cents, &d.Remaining.Cents,
		&d.Direction, &due, &term, &installment, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("scan debt: %w", err)
	}
	if due.Valid {
		d.DueDate = core.Date{Time: due.Time}
	}
	d.Term = int(term.Int64)
	d.Installment = core.Money{Cents: installment.Int64}
	return d, nil
}

func nullDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
