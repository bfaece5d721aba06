package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"finanzas/internal/core"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// withAuth resolves the bearer token against the sessions table and puts the
// owner id into the request context. Tokens are opaque; the external auth
// system provisions them.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		ownerID, err := s.store.LookupSession(r.Context(), token)
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Session lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "session lookup failed")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// ownerID extracts the authenticated owner from the request context.
func ownerID(r *http.Request) string {
	if id, ok := r.Context().Value(ownerIDKey).(string); ok {
		return id
	}
	return ""
}

// extractClientIP considers proxy headers before falling back to RemoteAddr.
func extractClientIP(r *http.Request) string {
	clientIP := r.Header.Get("X-Forwarded-For")
	if clientIP != "" {
		if idx := strings.Index(clientIP, ","); idx >= 0 {
			clientIP = clientIP[:idx]
		}
		return strings.TrimSpace(clientIP)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
