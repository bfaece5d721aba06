package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finanzas/internal/core"
)

// UpdateAccountParams carries the optional fields of an owner-initiated
// account edit. Nil pointers leave the column untouched (COALESCE semantics).
type UpdateAccountParams struct {
	Name     *string
	Type     *string
	Currency *string
	Balance  *int64
}

func (q *Queries) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts (id, owner_id, name, type, currency, balance_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Name, a.Type, a.Currency, a.Balance.Cents)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (q *Queries) GetAccount(ctx context.Context, ownerID, id string) (core.Account, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, currency, balance_cents, created_at, updated_at
		FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanAccount(row)
}

func (q *Queries) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, owner_id, name, type, currency, balance_cents, created_at, updated_at
		FROM accounts WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (q *Queries) UpdateAccount(ctx context.Context, ownerID, id string, p UpdateAccountParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = COALESCE(?, name),
		    type = COALESCE(?, type),
		    currency = COALESCE(?, currency),
		    balance_cents = COALESCE(?, balance_cents),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		p.Name, p.Type, p.Currency, p.Balance, id, ownerID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res)
}

// AdjustBalance applies a signed delta to the cached balance. The additive
// update makes concurrent postings commutative: no read-modify-write race.
func (q *Queries) AdjustBalance(ctx context.Context, ownerID, id string, delta int64) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents = balance_cents + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`, delta, id, ownerID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	return requireRow(res)
}

// DetachTransactions clears the account reference on all transactions posted
// against the account. The rows themselves are kept.
func (q *Queries) DetachTransactions(ctx context.Context, ownerID, accountID string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE transactions SET account_id = NULL
		WHERE account_id = ? AND owner_id = ?`, accountID, ownerID)
	if err != nil {
		return fmt.Errorf("detach transactions: %w", err)
	}
	return nil
}

func (q *Queries) DeleteAccount(ctx context.Context, ownerID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

// SumTransactionDeltas recomputes the balance an account should have from its
// posted transactions. Used for drift auditing only.
func (q *Queries) SumTransactionDeltas(ctx context.Context, ownerID, accountID string) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE -amount_cents END), 0)
		FROM transactions WHERE account_id = ? AND owner_id = ?`, accountID, ownerID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transaction deltas: %w", err)
	}
	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Type, &a.Currency,
		&a.Balance.Cents, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}

// requireRow maps an update/delete that matched nothing to core.ErrNotFound,
// the same answer for "absent" and "owned by someone else".
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
