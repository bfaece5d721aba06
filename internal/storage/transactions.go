package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finanzas/internal/core"
)

// TransactionWithAccount is a listing row: the transaction plus the (possibly
// absent) name of the account it was posted against.
type TransactionWithAccount struct {
	core.Transaction
	AccountName string
}

func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) error {
	accountID := any(t.AccountID)
	if t.AccountID == "" {
		accountID = nil
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, account_id, type, amount_cents, category, description, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, accountID, string(t.Type), t.Amount.Cents,
		t.Category, t.Description, t.Date.Time)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (q *Queries) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, owner_id, account_id, type, amount_cents, category, description, date, created_at
		FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (q *Queries) ListTransactions(ctx context.Context, ownerID string) ([]TransactionWithAccount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT t.id, t.owner_id, t.account_id, t.type, t.amount_cents, t.category,
		       t.description, t.date, t.created_at, COALESCE(a.name, '')
		FROM transactions t
		LEFT JOIN accounts a ON t.account_id = a.id
		WHERE t.owner_id = ?
		ORDER BY t.date DESC, t.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionWithAccount
	for rows.Next() {
		var (
			t         core.Transaction
			accountID sql.NullString
			date      sql.NullTime
			name      string
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &accountID, &t.Type, &t.Amount.Cents,
			&t.Category, &t.Description, &date, &t.CreatedAt, &name); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.AccountID = accountID.String
		t.Date = core.Date{Time: date.Time}
		out = append(out, TransactionWithAccount{Transaction: t, AccountName: name})
	}
	return out, rows.Err()
}

// DeleteTransactions removes the given transactions, owner-scoped. Balances
// are not recomputed; this mirrors the owner-initiated bulk cleanup of the
// original system, not the posting path.
func (q *Queries) DeleteTransactions(ctx context.Context, ownerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, ownerID)

	res, err := q.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id IN (`+placeholders+`) AND owner_id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return res.RowsAffected()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		accountID sql.NullString
		date      sql.NullTime
	)
	err := row.Scan(&t.ID, &t.OwnerID, &accountID, &t.Type, &t.Amount.Cents,
		&t.Category, &t.Description, &date, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.AccountID = accountID.String
	t.Date = core.Date{Time: date.Time}
	return t, nil
}
