package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toAccountView(a))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Currency string `json:"currency"`
		amountField
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	in := services.CreateAccountInput{
		Name:     sanitizeInput(req.Name),
		Type:     sanitizeInput(req.Type),
		Currency: sanitizeInput(req.Currency),
	}
	if req.set() {
		balance, err := req.money()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid opening balance")
			return
		}
		in.Balance = balance
	}

	owner := ownerID(r)
	account, err := s.ledger.CreateAccount(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Account created",
		"account_id", account.ID,
		"owner_id", owner,
		"name", account.Name)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusCreated, toAccountView(account))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.ledger.GetAccount(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(account))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Currency *string `json:"currency"`
		Balance  *int64  `json:"balance_cents"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	owner := ownerID(r)
	account, err := s.ledger.UpdateAccount(r.Context(), owner, r.PathValue("id"), storage.UpdateAccountParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
		Balance:  req.Balance,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toAccountView(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	id := r.PathValue("id")

	if err := s.ledger.DeleteAccount(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Account deleted, transactions detached",
		"account_id", id,
		"owner_id", owner)

	s.invalidateSummary(owner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecomputeBalance(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	audit, err := s.ledger.RecomputeBalance(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if audit.Drift() != 0 {
		slog.WarnContext(r.Context(), "Cached balance drift corrected",
			"account_id", audit.AccountID,
			"owner_id", owner,
			"drift_cents", audit.Drift())
	}

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toAuditView(audit))
}
