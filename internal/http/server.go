package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/middleware/ratelimit"
	"finanzas/internal/middleware/trace"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

type Server struct {
	http.Server

	store     *storage.Store
	ledger    *services.LedgerService
	debts     *services.DebtService
	reminders *services.ReminderService
	invoices  *services.InvoiceService

	rateLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware
	summaryCache *cache.LRUCache[summaryView]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options tunes server behavior beyond the wiring.
type Options struct {
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration
}

func defaultOptions() Options {
	return Options{
		SummaryCacheSize: 100,
		SummaryCacheTTL:  30 * time.Second,
	}
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store *storage.Store, ledger *services.LedgerService, debts *services.DebtService, reminders *services.ReminderService, invoices *services.InvoiceService, opts Options) *Server {
	if opts.SummaryCacheSize <= 0 || opts.SummaryCacheTTL <= 0 {
		opts = defaultOptions()
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        store,
		ledger:       ledger,
		debts:        debts,
		reminders:    reminders,
		invoices:     invoices,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:       trace.NewMiddleware(extractClientIP),
		summaryCache: cache.NewLRUCache[summaryView](opts.SummaryCacheSize, opts.SummaryCacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)

	api := func(h http.HandlerFunc) http.Handler {
		return s.tracer.Middleware(
			s.rateLimiter.Middleware(extractClientIP, nil)(
				s.withAuth(h)))
	}

	mux.Handle("GET /api/accounts", api(s.handleListAccounts))
	mux.Handle("POST /api/accounts", api(s.handleCreateAccount))
	mux.Handle("GET /api/accounts/{id}", api(s.handleGetAccount))
	mux.Handle("PATCH /api/accounts/{id}", api(s.handleUpdateAccount))
	mux.Handle("DELETE /api/accounts/{id}", api(s.handleDeleteAccount))
	mux.Handle("POST /api/accounts/{id}/recompute", api(s.handleRecomputeBalance))

	mux.Handle("GET /api/transactions", api(s.handleListTransactions))
	mux.Handle("POST /api/transactions", api(s.handlePostTransaction))
	mux.Handle("POST /api/transactions/delete", api(s.handleDeleteTransactions))

	mux.Handle("GET /api/debts", api(s.handleListDebts))
	mux.Handle("POST /api/debts", api(s.handleCreateDebt))
	mux.Handle("GET /api/debts/{id}", api(s.handleGetDebt))
	mux.Handle("PATCH /api/debts/{id}", api(s.handleUpdateDebt))
	mux.Handle("DELETE /api/debts/{id}", api(s.handleDeleteDebt))
	mux.Handle("POST /api/debts/pay", api(s.handlePayDebt))

	mux.Handle("GET /api/reminders", api(s.handleListReminders))
	mux.Handle("POST /api/reminders", api(s.handleCreateReminder))
	mux.Handle("GET /api/reminders/{id}", api(s.handleGetReminder))
	mux.Handle("PATCH /api/reminders/{id}", api(s.handleUpdateReminder))
	mux.Handle("DELETE /api/reminders/{id}", api(s.handleDeleteReminder))
	mux.Handle("POST /api/reminders/{id}/payments", api(s.handleMarkReminderPaid))
	mux.Handle("GET /api/reminders/{id}/payments", api(s.handleListReminderPayments))

	mux.Handle("GET /api/invoices", api(s.handleListInvoices))
	mux.Handle("POST /api/invoices", api(s.handleCreateInvoice))
	mux.Handle("PATCH /api/invoices/{id}", api(s.handleUpdateInvoice))
	mux.Handle("DELETE /api/invoices/{id}", api(s.handleDeleteInvoice))

	mux.Handle("GET /api/summary", api(s.handleSummary))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateSummary drops every cached summary view for the owner. Called
// after any mutation so the dashboard never serves stale totals past a write.
func (s *Server) invalidateSummary(ownerID string) {
	removed := s.summaryCache.DeletePrefix(ownerID + ":")
	if removed > 0 {
		slog.Debug("Summary cache invalidated", "owner_id", ownerID, "removed", removed)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
