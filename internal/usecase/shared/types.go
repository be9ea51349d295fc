package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutboxKindBooking         = "booking"
	TopicBookingConfirmed     = "booking.confirmed"
	TopicReconciliationNeeded = "booking.reconciliation_required"
)

type OutboxEvent struct {
	ID          uuid.UUID
	Kind        string
	Topic       string
	AggregateID string
	Payload     []byte
	RunAt       time.Time
}

type TriggerSource string

const (
	SourceWebhook       TriggerSource = "webhook"
	SourceBrowserReturn TriggerSource = "browser_return"
)
