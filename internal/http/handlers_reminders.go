package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.reminders.List(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]reminderView, 0, len(reminders))
	for _, rem := range reminders {
		views = append(views, toReminderView(rem))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		DueDate   string `json:"due_date"`
		Frequency string `json:"frequency"`
		amountField
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	// Amount is optional: a reminder may carry no amount at all.
	var amount core.Money
	if req.set() {
		var err error
		amount, err = req.money()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid amount")
			return
		}
	}

	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
		return
	}

	owner := ownerID(r)
	reminder, err := s.reminders.Create(r.Context(), owner, services.CreateReminderInput{
		Title:     sanitizeInput(req.Title),
		Amount:    amount,
		DueDate:   dueDate,
		Frequency: core.Frequency(req.Frequency),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Reminder created",
		"reminder_id", reminder.ID,
		"owner_id", owner,
		"title", reminder.Title,
		"due_date", reminder.DueDate.String(),
		"frequency", string(reminder.Frequency))

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusCreated, toReminderView(reminder))
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	reminder, err := s.reminders.Get(r.Context(), ownerID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderView(reminder))
}

// handleUpdateReminder edits details only. Payment state never moves through
// here: is_paid and is_active belong to the payment transition, and sending
// them is rejected as an unknown field.
func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		AmountCents *int64  `json:"amount_cents"`
		DueDate     *string `json:"due_date"`
		Frequency   *string `json:"frequency"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	params := storage.UpdateReminderParams{
		Title:  req.Title,
		Amount: req.AmountCents,
	}
	if req.DueDate != nil {
		due, err := parseDateField(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid due date, want yyyy-mm-dd")
			return
		}
		params.DueDate = &due
	}
	if req.Frequency != nil {
		freq := core.Frequency(*req.Frequency)
		params.Frequency = &freq
	}

	owner := ownerID(r)
	reminder, err := s.reminders.UpdateDetails(r.Context(), owner, id, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toReminderView(reminder))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	owner := ownerID(r)
	if err := s.reminders.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateSummary(owner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkReminderPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
	}

	owner := ownerID(r)
	reminder, err := s.reminders.MarkPaid(r.Context(), owner, id, sanitizeInput(req.Notes))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Reminder marked paid",
		"reminder_id", reminder.ID,
		"owner_id", owner,
		"next_due", reminder.DueDate.String(),
		"active", reminder.IsActive)

	s.invalidateSummary(owner)
	writeJSON(w, http.StatusOK, toReminderView(reminder))
}

func (s *Server) handleListReminderPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	payments, err := s.reminders.ListPayments(r.Context(), ownerID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	writeJSON(w, http.StatusOK, views)
}
