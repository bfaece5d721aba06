package amqp

import (
	"testing"
	"time"
)

func TestReminderPaidEventRoundTrip(t *testing.T) {
	event := NewReminderPaidEvent("owner-1", 42, 12500, "Rent")
	if event.Kind != KindReminderPaid {
		t.Fatalf("kind = %q", event.Kind)
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := PaymentEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.OwnerID != "owner-1" || got.ReminderID != 42 || got.AmountCents != 12500 || got.Title != "Rent" {
		t.Errorf("got %+v", got)
	}
	if got.DebtID != "" {
		t.Errorf("debt id = %q on a reminder event", got.DebtID)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", got.Timestamp)
	}
}

func TestDebtPaymentEventRoundTrip(t *testing.T) {
	event := NewDebtPaymentEvent("owner-2", "debt-7", 5000, "Car loan")
	if event.Kind != KindDebtPayment {
		t.Fatalf("kind = %q", event.Kind)
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := PaymentEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DebtID != "debt-7" || got.AmountCents != 5000 {
		t.Errorf("got %+v", got)
	}
	if got.ReminderID != 0 {
		t.Errorf("reminder id = %d on a debt event", got.ReminderID)
	}
}

func TestPaymentEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := PaymentEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
