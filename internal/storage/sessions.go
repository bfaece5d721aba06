package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finanzas/internal/core"
)

// LookupSession resolves an opaque session token to its owner id. Expired or
// unknown tokens come back as core.ErrNotFound. The sessions table is written
// by the external auth system; this service only reads it.
func (q *Queries) LookupSession(ctx context.Context, token string) (string, error) {
	var (
		ownerID   string
		expiresAt time.Time
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT owner_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&ownerID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if time.Now().After(expiresAt) {
		return "", core.ErrNotFound
	}
	return ownerID, nil
}
