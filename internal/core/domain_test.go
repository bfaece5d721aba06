package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty string")
	}
}

func TestTransactionTypeDelta(t *testing.T) {
	if got := Income.Delta(Money{Cents: 500}); got != 500 {
		t.Fatalf("income delta = %d, want 500", got)
	}
	if got := Expense.Delta(Money{Cents: 500}); got != -500 {
		t.Fatalf("expense delta = %d, want -500", got)
	}
}

func TestSettlementType(t *testing.T) {
	if Payable.SettlementType() != Expense {
		t.Fatalf("paying a payable should post an expense")
	}
	if Receivable.SettlementType() != Income {
		t.Fatalf("collecting a receivable should post income")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Income,
		Amount:   Money{Cents: 100},
		Category: "Salario",
		Date:     NewDate(2024, 3, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Type: "transfer", Amount: Money{Cents: 1}, Category: "c", Date: NewDate(2024, 1, 1)}, ErrInvalidType},
		{Transaction{Type: Income, Amount: Money{Cents: 0}, Category: "c", Date: NewDate(2024, 1, 1)}, ErrInvalidAmount},
		{Transaction{Type: Income, Amount: Money{Cents: 1}, Category: "", Date: NewDate(2024, 1, 1)}, ErrEmptyName},
		{Transaction{Type: Income, Amount: Money{Cents: 1}, Category: "c", Date: Date{Time: time.Time{}}}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestDebtValidate(t *testing.T) {
	good := Debt{
		Name:      "Hipoteca",
		Total:     Money{Cents: 100000},
		Remaining: Money{Cents: 100000},
		Direction: Payable,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	over := good
	over.Remaining = Money{Cents: 200000}
	if err := over.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("remaining > total should be invalid, got %v", err)
	}

	neg := good
	neg.Remaining = Money{Cents: -1}
	if err := neg.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative remaining should be invalid, got %v", err)
	}

	dir := good
	dir.Direction = "mutual"
	if err := dir.Validate(); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("bad direction should be invalid, got %v", err)
	}
}

func TestReminderValidate(t *testing.T) {
	good := Reminder{
		Title:     "Alquiler",
		Amount:    Money{Cents: 80000},
		DueDate:   NewDate(2024, 4, 1),
		Frequency: Monthly,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// zero amount is allowed for reminders, negative is not
	free := good
	free.Amount = Money{Cents: 0}
	if err := free.Validate(); err != nil {
		t.Fatalf("zero amount reminder should be valid, got %v", err)
	}
	neg := good
	neg.Amount = Money{Cents: -1}
	if err := neg.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount should be invalid, got %v", err)
	}

	bad := good
	bad.Frequency = "biweekly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("bad frequency should be invalid, got %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrInvalidAmount) {
		t.Fatalf("ErrInvalidAmount should be validation")
	}
	if IsValidation(ErrNotFound) {
		t.Fatalf("ErrNotFound is not validation")
	}
	if IsValidation(ErrOverpayment) {
		t.Fatalf("ErrOverpayment is not validation")
	}
}
