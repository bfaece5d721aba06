package services

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
)

func TestApplyPaymentReducesRemaining(t *testing.T) {
	store := newTestStore(t)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{
		Name:  "Car loan",
		Total: core.Money{Cents: 50000},
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if debt.Remaining.Cents != 50000 {
		t.Fatalf("new debt remaining = %d, want full total", debt.Remaining.Cents)
	}
	if debt.Direction != core.Payable {
		t.Fatalf("default direction = %s, want payable", debt.Direction)
	}

	got, err := debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{DebtID: debt.ID, Amount: core.Money{Cents: 20000}})
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}
	if got.Remaining.Cents != 30000 {
		t.Errorf("remaining = %d, want 30000", got.Remaining.Cents)
	}

	// Paying down to exactly zero is allowed and does not archive the debt.
	got, err = debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{DebtID: debt.ID, Amount: core.Money{Cents: 30000}})
	if err != nil {
		t.Fatalf("apply final payment: %v", err)
	}
	if got.Remaining.Cents != 0 {
		t.Errorf("remaining = %d, want 0", got.Remaining.Cents)
	}
	if _, err := debts.GetDebt(ctx, "owner-1", debt.ID); err != nil {
		t.Errorf("settled debt should still exist: %v", err)
	}
}

func TestOverpaymentLeavesDebtUnchanged(t *testing.T) {
	store := newTestStore(t)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{
		Name:  "Loan",
		Total: core.Money{Cents: 1000},
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	_, err = debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{DebtID: debt.ID, Amount: core.Money{Cents: 1001}})
	if !errors.Is(err, core.ErrOverpayment) {
		t.Fatalf("err = %v, want ErrOverpayment", err)
	}

	got, err := debts.GetDebt(ctx, "owner-1", debt.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if got.Remaining.Cents != 1000 {
		t.Errorf("remaining = %d after rejected overpayment, want 1000", got.Remaining.Cents)
	}
}

func TestApplyPaymentValidation(t *testing.T) {
	store := newTestStore(t)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{Name: "Loan", Total: core.Money{Cents: 1000}})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	for _, cents := range []int64{0, -100} {
		if _, err := debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{DebtID: debt.ID, Amount: core.Money{Cents: cents}}); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("amount %d: err = %v, want ErrInvalidAmount", cents, err)
		}
	}
}

func TestSettlementPostsLedgerTransaction(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedgerService(store)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	account, err := ledger.CreateAccount(ctx, "owner-1", CreateAccountInput{Name: "Main"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	tests := []struct {
		name        string
		direction   core.DebtDirection
		wantType    core.TransactionType
		wantBalance int64
	}{
		{"payable settles as expense", core.Payable, core.Expense, -2000},
		{"receivable settles as income", core.Receivable, core.Income, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := ledger.GetAccount(ctx, "owner-1", account.ID)
			if err != nil {
				t.Fatalf("get account: %v", err)
			}

			debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{
				Name:      "Deal",
				Total:     core.Money{Cents: 5000},
				Direction: tt.direction,
			})
			if err != nil {
				t.Fatalf("create debt: %v", err)
			}

			if _, err := debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{
				DebtID:              debt.ID,
				Amount:              core.Money{Cents: 2000},
				SettlementAccountID: account.ID,
			}); err != nil {
				t.Fatalf("apply payment: %v", err)
			}

			after, err := ledger.GetAccount(ctx, "owner-1", account.ID)
			if err != nil {
				t.Fatalf("get account: %v", err)
			}
			if diff := after.Balance.Cents - before.Balance.Cents; diff != tt.wantBalance {
				t.Errorf("balance moved by %d, want %d", diff, tt.wantBalance)
			}

			transactions, err := ledger.ListTransactions(ctx, "owner-1")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var found bool
			for _, tr := range transactions {
				if tr.Category == SettlementCategory && tr.Type == tt.wantType && tr.Amount.Cents == 2000 {
					found = true
				}
			}
			if !found {
				t.Errorf("no settlement posting of type %s found", tt.wantType)
			}
		})
	}
}

func TestSettlementFailureRollsBackDebt(t *testing.T) {
	store := newTestStore(t)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{Name: "Loan", Total: core.Money{Cents: 3000}})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	_, err = debts.ApplyPayment(ctx, "owner-1", ApplyPaymentInput{
		DebtID:              debt.ID,
		Amount:              core.Money{Cents: 1000},
		SettlementAccountID: "no-such-account",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// The decrement must roll back with the failed posting.
	got, err := debts.GetDebt(ctx, "owner-1", debt.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if got.Remaining.Cents != 3000 {
		t.Errorf("remaining = %d after rolled-back settlement, want 3000", got.Remaining.Cents)
	}
}

func TestDebtOwnerScoping(t *testing.T) {
	store := newTestStore(t)
	debts := NewDebtService(store, nil)
	ctx := context.Background()

	debt, err := debts.CreateDebt(ctx, "owner-1", CreateDebtInput{Name: "Mine", Total: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	if _, err := debts.GetDebt(ctx, "owner-2", debt.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner get = %v, want ErrNotFound", err)
	}
	if _, err := debts.ApplyPayment(ctx, "owner-2", ApplyPaymentInput{DebtID: debt.ID, Amount: core.Money{Cents: 50}}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner payment = %v, want ErrNotFound", err)
	}
}
