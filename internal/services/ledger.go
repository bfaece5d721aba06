// Package services holds the business operations of the tracker. Every
// operation that touches more than one row runs inside a single storage
// transaction; on failure the caller observes the state exactly as it was.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// LedgerService owns account balances. The cached balance only ever moves
// through PostTransaction or the explicit owner edit in UpdateAccount; there
// is no other write path.
type LedgerService struct {
	store *storage.Store
}

func NewLedgerService(store *storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

type CreateAccountInput struct {
	Name     string
	Type     string
	Currency string
	Balance  core.Money // opening balance, may be zero
}

type PostTransactionInput struct {
	AccountID   string
	Type        core.TransactionType
	Amount      core.Money
	Category    string
	Description string
	Date        core.Date // zero means today
}

// BalanceAudit reports cached-balance drift for one account.
type BalanceAudit struct {
	AccountID string
	Cached    int64
	Computed  int64
}

// Drift is cached minus computed; zero means the ledger invariant holds.
func (b BalanceAudit) Drift() int64 {
	return b.Cached - b.Computed
}

func (s *LedgerService) CreateAccount(ctx context.Context, ownerID string, in CreateAccountInput) (core.Account, error) {
	account := core.Account{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Name:     in.Name,
		Type:     in.Type,
		Currency: in.Currency,
		Balance:  in.Balance,
	}
	if account.Type == "" {
		account.Type = "checking"
	}
	if account.Currency == "" {
		account.Currency = "EUR"
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return core.Account{}, err
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", account.ID,
		"name", account.Name,
		"currency", account.Currency)

	return s.store.GetAccount(ctx, ownerID, account.ID)
}

func (s *LedgerService) GetAccount(ctx context.Context, ownerID, id string) (core.Account, error) {
	return s.store.GetAccount(ctx, ownerID, id)
}

func (s *LedgerService) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	return s.store.ListAccounts(ctx, ownerID)
}

// UpdateAccount is the owner-initiated detail edit, including the direct
// balance edit the original system allows. It bypasses no invariant checks
// beyond ownership; posted history is untouched.
func (s *LedgerService) UpdateAccount(ctx context.Context, ownerID, id string, p storage.UpdateAccountParams) (core.Account, error) {
	if p.Name != nil {
		if err := (core.Account{Name: *p.Name}).Validate(); err != nil {
			return core.Account{}, err
		}
	}
	if err := s.store.UpdateAccount(ctx, ownerID, id, p); err != nil {
		return core.Account{}, err
	}
	return s.store.GetAccount(ctx, ownerID, id)
}

// PostTransaction records an immutable transaction and adjusts the owning
// account's cached balance in one atomic unit: either both changes are
// durable or neither is.
func (s *LedgerService) PostTransaction(ctx context.Context, ownerID string, in PostTransactionInput) (core.Transaction, error) {
	if in.Date.IsZero() {
		now := time.Now().UTC()
		in.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		AccountID:   in.AccountID,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		return postTransaction(ctx, q, t)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction posted",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return s.store.GetTransaction(ctx, ownerID, t.ID)
}

// postTransaction is the shared posting path, always called inside a
// transaction. The Debt Tracker reuses it for settlement postings so a debt
// payment and its ledger entry commit together.
func postTransaction(ctx context.Context, q *storage.Queries, t core.Transaction) error {
	// Ownership check happens inside the same transaction as the writes.
	if _, err := q.GetAccount(ctx, t.OwnerID, t.AccountID); err != nil {
		return err
	}
	if err := q.InsertTransaction(ctx, t); err != nil {
		return err
	}
	return q.AdjustBalance(ctx, t.OwnerID, t.AccountID, t.Type.Delta(t.Amount))
}

func (s *LedgerService) ListTransactions(ctx context.Context, ownerID string) ([]storage.TransactionWithAccount, error) {
	return s.store.ListTransactions(ctx, ownerID)
}

// DeleteTransactions removes transactions in bulk without touching balances;
// this is the owner's history cleanup, not a reversal of postings.
func (s *LedgerService) DeleteTransactions(ctx context.Context, ownerID string, ids []string) (int64, error) {
	return s.store.DeleteTransactions(ctx, ownerID, ids)
}

// DeleteAccount removes the account and detaches its transactions: their
// account reference becomes absent, the rows stay.
func (s *LedgerService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetAccount(ctx, ownerID, accountID); err != nil {
			return err
		}
		if err := q.DetachTransactions(ctx, ownerID, accountID); err != nil {
			return err
		}
		return q.DeleteAccount(ctx, ownerID, accountID)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Account deleted", "account_id", accountID)
	return nil
}

// RecomputeBalance compares the cached balance with the sum of posted
// transaction deltas. Audit only; it never writes.
func (s *LedgerService) RecomputeBalance(ctx context.Context, ownerID, accountID string) (BalanceAudit, error) {
	account, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return BalanceAudit{}, err
	}
	sum, err := s.store.SumTransactionDeltas(ctx, ownerID, accountID)
	if err != nil {
		return BalanceAudit{}, err
	}
	return BalanceAudit{AccountID: accountID, Cached: account.Balance.Cents, Computed: sum}, nil
}
