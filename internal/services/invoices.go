package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// InvoiceService is plain owner-scoped CRUD; document rendering lives
// elsewhere.
type InvoiceService struct {
	store *storage.Store
}

func NewInvoiceService(store *storage.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

type CreateInvoiceInput struct {
	ClientName string
	Amount     core.Money
	IssueDate  core.Date
	DueDate    core.Date
	Status     core.InvoiceStatus
}

func (s *InvoiceService) Create(ctx context.Context, ownerID string, in CreateInvoiceInput) (core.Invoice, error) {
	inv := core.Invoice{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ClientName: in.ClientName,
		Amount:     in.Amount,
		IssueDate:  in.IssueDate,
		DueDate:    in.DueDate,
		Status:     in.Status,
	}
	if inv.Status == "" {
		inv.Status = core.InvoicePending
	}
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return core.Invoice{}, err
	}

	slog.InfoContext(ctx, "Invoice created",
		"invoice_id", inv.ID,
		"client", inv.ClientName,
		"amount_cents", inv.Amount.Cents)

	return s.store.GetInvoice(ctx, ownerID, inv.ID)
}

func (s *InvoiceService) List(ctx context.Context, ownerID string) ([]core.Invoice, error) {
	return s.store.ListInvoices(ctx, ownerID)
}

func (s *InvoiceService) Update(ctx context.Context, ownerID, id string, p storage.UpdateInvoiceParams) (core.Invoice, error) {
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return core.Invoice{}, err
		}
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return core.Invoice{}, core.ErrInvalidAmount
	}
	if err := s.store.UpdateInvoice(ctx, ownerID, id, p); err != nil {
		return core.Invoice{}, err
	}
	return s.store.GetInvoice(ctx, ownerID, id)
}

func (s *InvoiceService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteInvoice(ctx, ownerID, id)
}
