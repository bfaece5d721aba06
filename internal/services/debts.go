package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// SettlementCategory labels ledger postings made on behalf of debt payments.
const SettlementCategory = "Pago de deuda"

// DebtService owns debt amortization. remaining_amount only ever decreases,
// through ApplyPayment; reaching zero does not archive the debt (deletion is
// an explicit owner action).
type DebtService struct {
	store  *storage.Store
	events *amqp.Client
}

func NewDebtService(store *storage.Store, events *amqp.Client) *DebtService {
	return &DebtService{store: store, events: events}
}

type CreateDebtInput struct {
	Name        string
	Total       core.Money
	Direction   core.DebtDirection
	DueDate     core.Date
	Term        int
	Installment core.Money
}

type ApplyPaymentInput struct {
	DebtID string
	Amount core.Money
	// SettlementAccountID, when set, also posts a ledger transaction against
	// that account inside the same atomic unit.
	SettlementAccountID string
}

func (s *DebtService) CreateDebt(ctx context.Context, ownerID string, in CreateDebtInput) (core.Debt, error) {
	debt := core.Debt{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Total:       in.Total,
		Remaining:   in.Total, // a new debt starts fully unpaid
		Direction:   in.Direction,
		DueDate:     in.DueDate,
		Term:        in.Term,
		Installment: in.Installment,
	}
	if debt.Direction == "" {
		debt.Direction = core.Payable
	}
	if err := debt.Validate(); err != nil {
		return core.Debt{}, err
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return core.Debt{}, err
	}

	slog.InfoContext(ctx, "Debt created",
		"debt_id", debt.ID,
		"name", debt.Name,
		"total_cents", debt.Total.Cents,
		"direction", debt.Direction)

	return s.store.GetDebt(ctx, ownerID, debt.ID)
}

func (s *DebtService) GetDebt(ctx context.Context, ownerID, id string) (core.Debt, error) {
	return s.store.GetDebt(ctx, ownerID, id)
}

func (s *DebtService) ListDebts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	return s.store.ListDebts(ctx, ownerID)
}

func (s *DebtService) UpdateDebt(ctx context.Context, ownerID, id string, p storage.UpdateDebtParams) (core.Debt, error) {
	if err := s.store.UpdateDebt(ctx, ownerID, id, p); err != nil {
		return core.Debt{}, err
	}
	return s.store.GetDebt(ctx, ownerID, id)
}

func (s *DebtService) DeleteDebt(ctx context.Context, ownerID, id string) error {
	// No cascade: transactions already posted for past payments stay.
	return s.store.DeleteDebt(ctx, ownerID, id)
}

// ApplyPayment decrements the remaining amount and, when a settlement account
// is supplied, posts the matching ledger transaction. Both writes commit as
// one atomic unit; any failure leaves debt, account, and transactions as they
// were.
func (s *DebtService) ApplyPayment(ctx context.Context, ownerID string, in ApplyPaymentInput) (core.Debt, error) {
	if err := in.Amount.Validate(); err != nil {
		return core.Debt{}, err
	}

	var debt core.Debt
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetDebt(ctx, ownerID, in.DebtID)
		if err != nil {
			return err
		}
		if in.Amount.Cents > current.Remaining.Cents {
			return core.ErrOverpayment
		}

		ok, err := q.DecrementRemaining(ctx, ownerID, in.DebtID, in.Amount.Cents)
		if err != nil {
			return err
		}
		if !ok {
			// The validation read and this write run in the same immediate
			// transaction, so a failed guard means a true conflict.
			return core.ErrConflict
		}

		if in.SettlementAccountID != "" {
			posting := core.Transaction{
				ID:          uuid.NewString(),
				OwnerID:     ownerID,
				AccountID:   in.SettlementAccountID,
				Type:        current.Direction.SettlementType(),
				Amount:      in.Amount,
				Category:    SettlementCategory,
				Description: fmt.Sprintf("Pago de deuda: %s", current.Name),
				Date:        todayUTC(),
			}
			if err := postTransaction(ctx, q, posting); err != nil {
				return err
			}
		}

		debt, err = q.GetDebt(ctx, ownerID, in.DebtID)
		return err
	})
	if err != nil {
		return core.Debt{}, err
	}

	slog.InfoContext(ctx, "Debt payment applied",
		"debt_id", debt.ID,
		"amount_cents", in.Amount.Cents,
		"remaining_cents", debt.Remaining.Cents,
		"settled_via_account", in.SettlementAccountID != "")

	s.publishPaymentEvent(ctx, amqp.NewDebtPaymentEvent(ownerID, debt.ID, in.Amount.Cents, debt.Name))

	return debt, nil
}

// publishPaymentEvent is best-effort: the payment has already committed, a
// publish failure must not fail the request.
func (s *DebtService) publishPaymentEvent(ctx context.Context, event *amqp.PaymentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"kind", event.Kind,
			"error", err)
	}
}
