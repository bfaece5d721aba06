package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.debts.ListDebts(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]debtView, 0, len(debts))
	for _, d := range debts {
		views = append(views, toDebtView(d))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string `json:"name"`
		Direction        string `json:"direction"`
		DueDate          string `json:"due_date"`
		Term             int    `json:"term"`
		InstallmentCents int64  `json:"installment_cents"`
		amountField
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	total, err := req.money()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid total amount")
		return
	}

	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
		return
	}

	owner := ownerID(r)
	debt, err := s.debts.CreateDebt(r.Context(), owner, services.CreateDebtInput{
		Name:        sanitizeInput(req.Name),
		Total:       total,
		Direction:   core.DebtDirection(req.Direction),
		DueDate:     dueDate,
		Term:        req.Term,
		Installment: core.Money{Cents: req.InstallmentCents},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Debt created",
		"debt_id", debt.ID,
		"owner_id", owner,
		"name", debt.Name,
		"total_cents", debt.Total.Cents)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusCreated, toDebtView(debt))
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := s.debts.GetDebt(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtView(debt))
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             *string `json:"name"`
		DueDate          *string `json:"due_date"`
		Term             *int    `json:"term"`
		InstallmentCents *int64  `json:"installment_cents"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	params := storage.UpdateDebtParams{
		Name:        req.Name,
		Term:        req.Term,
		Installment: req.InstallmentCents,
	}
	if req.DueDate != nil {
		due, err := parseDateField(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
			return
		}
		params.DueDate = &due
	}

	owner := ownerID(r)
	debt, err := s.debts.UpdateDebt(r.Context(), owner, r.PathValue("id"), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toDebtView(debt))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.debts.DeleteDebt(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DebtID              string `json:"debt_id"`
		SettlementAccountID string `json:"settlement_account_id"`
		amountField
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	amount, err := req.money()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid payment amount")
		return
	}

	owner := ownerID(r)
	debt, err := s.debts.ApplyPayment(r.Context(), owner, services.ApplyPaymentInput{
		DebtID:              req.DebtID,
		Amount:              amount,
		SettlementAccountID: req.SettlementAccountID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Debt payment applied",
		"debt_id", debt.ID,
		"owner_id", owner,
		"amount_cents", amount.Cents,
		"remaining_cents", debt.Remaining.Cents)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toDebtView(debt))
}
