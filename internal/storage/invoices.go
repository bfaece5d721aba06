package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finanzas/internal/core"
)

type UpdateInvoiceParams struct {
	ClientName *string
	Amount     *int64
	IssueDate  *core.Date
	DueDate    *core.Date
	Status     *core.InvoiceStatus
}

func (q *Queries) CreateInvoice(ctx context.Context, inv core.Invoice) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO invoices (id, owner_id, client_name, amount_cents, issue_date, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.ClientName, inv.Amount.Cents,
		inv.IssueDate.Time, nullDate(inv.DueDate), string(inv.Status))
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (q *Queries) GetInvoice(ctx context.Context, ownerID, id string) (core.Invoice, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, owner_id, client_name, amount_cents, issue_date, due_date, status, created_at, updated_at
		FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanInvoice(row)
}

func (q *Queries) ListInvoices(ctx context.Context, ownerID string) ([]core.Invoice, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, client_name, amount_cents, issue_date, due_date, status, created_at, updated_at
		FROM invoices WHERE owner_id = ? ORDER BY issue_date DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (q *Queries) UpdateInvoice(ctx context.Context, ownerID, id string, p UpdateInvoiceParams) error {
	var issue, due, status any
	if p.IssueDate != nil {
		issue = p.IssueDate.Time
	}
	if p.DueDate != nil {
		due = p.DueDate.Time
	}
	if p.Status != nil {
		status = string(*p.Status)
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE invoices
		SET client_name = COALESCE(?, client_name),
		    amount_cents = COALESCE(?, amount_cents),
		    issue_date = COALESCE(?, issue_date),
		    due_date = COALESCE(?, due_date),
		    status = COALESCE(?, status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		p.ClientName, p.Amount, issue, due, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) DeleteInvoice(ctx context.Context, ownerID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return requireRow(res)
}

func scanInvoice(row rowScanner) (core.Invoice, error) {
	var (
		inv   core.Invoice
		issue sql.NullTime
		due   sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.OwnerID, &inv.ClientName, &inv.Amount.Cents,
		&issue, &due, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, core.ErrNotFound
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("scan invoice: %w", err)
	}
	inv.IssueDate = core.Date{Time: issue.Time}
	if due.Valid {
		inv.DueDate = core.Date{Time: due.Time}
	}
	return inv, nil
}
