package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged by the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, core.ErrOverpayment):
		writeError(w, http.StatusUnprocessableEntity, "overpayment", "payment exceeds remaining debt")
	case errors.Is(err, core.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "concurrent update, retry the request")
	case core.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, "validation", err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

type accountView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Currency     string `json:"currency"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toAccountView(a core.Account) accountView {
	return accountView{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Currency:     a.Currency,
		BalanceCents: a.Balance.Cents,
		Balance:      a.Balance.String(),
		CreatedAt:    a.CreatedAt.Format(timeFormat),
		UpdatedAt:    a.UpdatedAt.Format(timeFormat),
	}
}

type transactionView struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
}

func toTransactionView(t core.Transaction, accountName string) transactionView {
	return transactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		AccountName: accountName,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.String(),
		CreatedAt:   t.CreatedAt.Format(timeFormat),
	}
}

type debtView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TotalCents       int64  `json:"total_cents"`
	RemainingCents   int64  `json:"remaining_cents"`
	Direction        string `json:"direction"`
	DueDate          string `json:"due_date,omitempty"`
	Term             int    `json:"term,omitempty"`
	InstallmentCents int64  `json:"installment_cents,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func toDebtView(d core.Debt) debtView {
	v := debtView{
		ID:               d.ID,
		Name:             d.Name,
		TotalCents:       d.Total.Cents,
		RemainingCents:   d.Remaining.Cents,
		Direction:        string(d.Direction),
		Term:             d.Term,
		InstallmentCents: d.Installment.Cents,
		CreatedAt:        d.CreatedAt.Format(timeFormat),
		UpdatedAt:        d.UpdatedAt.Format(timeFormat),
	}
	if !d.DueDate.IsZero() {
		v.DueDate = d.DueDate.String()
	}
	return v
}

type reminderView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	Frequency   string `json:"frequency"`
	IsPaid      bool   `json:"is_paid"`
	IsActive    bool   `json:"is_active"`
	LastPaid    string `json:"last_paid,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toReminderView(r core.Reminder) reminderView {
	v := reminderView{
		ID:          r.ID,
		Title:       r.Title,
		AmountCents: r.Amount.Cents,
		DueDate:     r.DueDate.String(),
		Frequency:   string(r.Frequency),
		IsPaid:      r.IsPaid,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.Format(timeFormat),
		UpdatedAt:   r.UpdatedAt.Format(timeFormat),
	}
	if !r.LastPaid.IsZero() {
		v.LastPaid = r.LastPaid.String()
	}
	return v
}

type paymentView struct {
	ID          int64  `json:"id"`
	ReminderID  int64  `json:"reminder_id"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	PaidDate    string `json:"paid_date"`
	Notes       string `json:"notes,omitempty"`
}

func toPaymentView(p core.ReminderPayment) paymentView {
	return paymentView{
		ID:          p.ID,
		ReminderID:  p.ReminderID,
		AmountCents: p.Amount.Cents,
		DueDate:     p.DueDate.String(),
		PaidDate:    p.PaidDate.Format(timeFormat),
		Notes:       p.Notes,
	}
}

type invoiceView struct {
	ID          string `json:"id"`
	ClientName  string `json:"client_name"`
	AmountCents int64  `json:"amount_cents"`
	IssueDate   string `json:"issue_date"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toInvoiceView(inv core.Invoice) invoiceView {
	return invoiceView{
		ID:          inv.ID,
		ClientName:  inv.ClientName,
		AmountCents: inv.Amount.Cents,
		IssueDate:   inv.IssueDate.String(),
		DueDate:     inv.DueDate.String(),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt.Format(timeFormat),
		UpdatedAt:   inv.UpdatedAt.Format(timeFormat),
	}
}

type auditView struct {
	AccountID     string `json:"account_id"`
	CachedCents   int64  `json:"cached_cents"`
	ComputedCents int64  `json:"computed_cents"`
	DriftCents    int64  `json:"drift_cents"`
}

func toAuditView(a services.BalanceAudit) auditView {
	return auditView{
		AccountID:     a.AccountID,
		CachedCents:   a.Cached,
		ComputedCents: a.Computed,
		DriftCents:    a.Drift(),
	}
}

type summaryView struct {
	Accounts          int64 `json:"accounts"`
	BalanceCents      int64 `json:"balance_cents"`
	OpenDebts         int64 `json:"open_debts"`
	OpenPayableCents  int64 `json:"open_payable_cents"`
	OpenReceivable    int64 `json:"open_receivable_cents"`
	UpcomingReminders int64 `json:"upcoming_reminders"`
	PendingInvoices   int64 `json:"pending_invoices"`
}

func toSummaryView(s storage.OwnerSummary) summaryView {
	return summaryView{
		Accounts:          s.AccountCount,
		BalanceCents:      s.BalanceCents,
		OpenDebts:         s.OpenDebtCount,
		OpenPayableCents:  s.OpenPayableCents,
		OpenReceivable:    s.OpenReceivable,
		UpcomingReminders: s.UpcomingReminders,
		PendingInvoices:   s.PendingInvoices,
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
