package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindReminderPaid = "reminder_paid"
	KindDebtPayment  = "debt_payment"
)

// PaymentEvent is published after a payment commits. It carries only the ids
// and amount; consumers fetch whatever else they need from the database.
type PaymentEvent struct {
	Kind        string    `json:"kind"`
	OwnerID     string    `json:"owner_id"`
	ReminderID  int64     `json:"reminder_id,omitempty"`
	DebtID      string    `json:"debt_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReminderPaidEvent creates the event published when a reminder payment commits.
func NewReminderPaidEvent(ownerID string, reminderID int64, amountCents int64, title string) *PaymentEvent {
	return &PaymentEvent{
		Kind:        KindReminderPaid,
		OwnerID:     ownerID,
		ReminderID:  reminderID,
		AmountCents: amountCents,
		Title:       title,
		Timestamp:   time.Now(),
	}
}

// NewDebtPaymentEvent creates the event published when a debt payment commits.
func NewDebtPaymentEvent(ownerID, debtID string, amountCents int64, name string) *PaymentEvent {
	return &PaymentEvent{
		Kind:        KindDebtPayment,
		OwnerID:     ownerID,
		DebtID:      debtID,
		AmountCents: amountCents,
		Title:       name,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *PaymentEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PaymentEventFromJSON creates an event from JSON bytes
func PaymentEventFromJSON(data []byte) (*PaymentEvent, error) {
	var e PaymentEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
