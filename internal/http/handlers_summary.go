package http

import (
	"log/slog"
	"net/http"
	"time"
)

// Upcoming reminders in the summary look this far ahead.
const summaryHorizon = 30 * 24 * time.Hour

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	key := owner + ":summary"

	if view, ok := s.summaryCache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, view)
		return
	}

	horizon := time.Now().UTC().Add(summaryHorizon)
	summary, err := s.store.Summary(r.Context(), owner, horizon)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := toSummaryView(summary)
	s.summaryCache.Set(key, view)

	slog.DebugContext(r.Context(), "Summary computed",
		"owner_id", owner,
		"accounts", view.Accounts,
		"open_debts", view.OpenDebts)

	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, view)
}
