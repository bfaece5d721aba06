package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.invoices.List(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, toInvoiceView(inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientName string `json:"client_name"`
		IssueDate  string `json:"issue_date"`
		DueDate    string `json:"due_date"`
		Status     string `json:"status"`
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

	issueDate, err := parseDateField(req.IssueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid issue date, want yyyy-mm-dd")
		return
	}
	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
		return
	}

	owner := ownerID(r)
	invoice, err := s.invoices.Create(r.Context(), owner, services.CreateInvoiceInput{
		ClientName: sanitizeInput(req.ClientName),
		Amount:     amount,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     core.InvoiceStatus(req.Status),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Invoice created",
		"invoice_id", invoice.ID,
		"owner_id", owner,
		"client_name", invoice.ClientName,
		"amount_cents", invoice.Amount.Cents)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusCreated, toInvoiceView(invoice))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientName  *string `json:"client_name"`
		AmountCents *int64  `json:"amount_cents"`
		IssueDate   *string `json:"issue_date"`
		DueDate     *string `json:"due_date"`
		Status      *string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	params := storage.UpdateInvoiceParams{
		ClientName: req.ClientName,
		Amount:     req.AmountCents,
	}
	if req.IssueDate != nil {
		issue, err := parseDateField(*req.IssueDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid issue date, want yyyy-mm-dd")
			return
		}
		params.IssueDate = &issue
	}
	if req.DueDate != nil {
		due, err := parseDateField(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
			return
		}
		params.DueDate = &due
	}
	if req.Status != nil {
		status := core.InvoiceStatus(*req.Status)
		params.Status = &status
	}

	owner := ownerID(r)
	invoice, err := s.invoices.Update(r.Context(), owner, r.PathValue("id"), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toInvoiceView(invoice))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.invoices.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	w.WriteHeader(http.StatusNoContent)
}
