package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, toTransactionView(t.Transaction, t.AccountName))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePostTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   string `json:"account_id"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Date        string `json:"date"`
		amountField
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	amount, err := req.money()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid amount")
		return
	}

	date, err := parseDateField(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid date, want yyyy-mm-dd")
		return
	}

	owner := ownerID(r)
	transaction, err := s.ledger.PostTransaction(r.Context(), owner, services.PostTransactionInput{
		AccountID:   req.AccountID,
		Type:        core.TransactionType(req.Type),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction posted",
		"transaction_id", transaction.ID,
		"owner_id", owner,
		"account_id", transaction.AccountID,
		"type", string(transaction.Type),
		"amount_cents", transaction.Amount.Cents)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusCreated, toTransactionView(transaction, ""))
}

func (s *Server) handleDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation", "ids must not be empty")
		return
	}

	owner := ownerID(r)
	deleted, err := s.ledger.DeleteTransactions(r.Context(), owner, req.IDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transactions deleted",
		"owner_id", owner,
		"requested", len(req.IDs),
		"deleted", deleted)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
