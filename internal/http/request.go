package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"finanzas/internal/core"
)

const maxBodySize = 1 << 20

// decodeJSON reads and decodes a JSON request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	// Trailing garbage after the JSON document is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("decode request body: unexpected trailing data")
	}
	return nil
}

// amountField accepts either integer cents or a decimal string, so callers
// can send {"amount_cents": 1234} or {"amount": "12.34"}.
type amountField struct {
	AmountCents *int64 `json:"amount_cents"`
	Amount      string `json:"amount"`
}

func (a amountField) money() (core.Money, error) {
	if a.AmountCents != nil {
		return core.Money{Cents: *a.AmountCents}, nil
	}
	if s := strings.TrimSpace(a.Amount); s != "" {
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: cents}, nil
	}
	return core.Money{}, core.ErrInvalidAmount
}

// set reports whether either representation was provided.
func (a amountField) set() bool {
	return a.AmountCents != nil || strings.TrimSpace(a.Amount) != ""
}

// parseDateField parses an optional yyyy-mm-dd string.
func parseDateField(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// pathID extracts an integer {id} path value.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id: %w", err)
	}
	return id, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
