package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Payable    DebtDirection = "payable"    // owed by the owner
	Receivable DebtDirection = "receivable" // owed to the owner
)

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type (
	TransactionType string
	DebtDirection   string
	InvoiceStatus   string

	// Date is a calendar date, not an instant. The time part is always
	// midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Account struct {
		ID        string
		OwnerID   string
		Name      string
		Type      string
		Currency  string
		Balance   Money
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Transaction is immutable once posted. AccountID becomes empty when
	// the owning account is deleted.
	Transaction struct {
		ID          string
		OwnerID     string
		AccountID   string
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		Date        Date
		CreatedAt   time.Time
	}

	Debt struct {
		ID          string
		OwnerID     string
		Name        string
		Total       Money
		Remaining   Money
		Direction   DebtDirection
		DueDate     Date
		Term        int // number of installments
		Installment Money
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	Reminder struct {
		ID        int64
		OwnerID   string
		Title     string
		Amount    Money
		DueDate   Date
		Frequency Frequency
		IsPaid    bool
		IsActive  bool
		LastPaid  Date // zero until the first payment
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// ReminderPayment is an append-only audit record. DueDate is the due
	// date that was settled, PaidDate when the payment was recorded.
	ReminderPayment struct {
		ID         int64
		ReminderID int64
		OwnerID    string
		Amount     Money
		DueDate    Date
		PaidDate   time.Time
		Notes      string
		CreatedAt  time.Time
	}

	Invoice struct {
		ID         string
		OwnerID    string
		ClientName string
		Amount     Money
		IssueDate  Date
		DueDate    Date
		Status     InvoiceStatus
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-mm-dd string, the storage and wire format for dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as yyyy-mm-dd.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// Delta is the signed effect of a transaction of this type on an account
// balance: income adds, expense subtracts.
func (t TransactionType) Delta(amount Money) int64 {
	if t == Expense {
		return -amount.Cents
	}
	return amount.Cents
}

func (dir DebtDirection) Validate() error {
	switch dir {
	case Payable, Receivable:
		return nil
	default:
		return ErrInvalidDirection
	}
}

// SettlementType maps a debt direction to the transaction type posted when a
// payment is settled against an account: paying down a payable is an expense,
// collecting on a receivable is income.
func (dir DebtDirection) SettlementType() TransactionType {
	if dir == Receivable {
		return Income
	}
	return Expense
}

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue:
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (a Account) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" || len(name) > 200 {
		return ErrEmptyName
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyName
	}
	return tx.Date.Validate()
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if err := d.Total.Validate(); err != nil {
		return err
	}
	if err := d.Direction.Validate(); err != nil {
		return err
	}
	// 0 <= remaining <= total, always
	if d.Remaining.Cents < 0 || d.Remaining.Cents > d.Total.Cents {
		return ErrInvalidAmount
	}
	return nil
}

func (r Reminder) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" || len(title) > 200 {
		return ErrEmptyTitle
	}
	if r.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := r.DueDate.Validate(); err != nil {
		return err
	}
	return r.Frequency.Validate()
}

func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.ClientName) == "" {
		return ErrEmptyName
	}
	if err := inv.Amount.Validate(); err != nil {
		return err
	}
	if err := inv.IssueDate.Validate(); err != nil {
		return err
	}
	return inv.Status.Validate()
}
