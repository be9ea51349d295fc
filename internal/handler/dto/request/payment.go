package request

import (
	"encoding/json"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/usecase/commands"
)

type CheckoutRequest struct {
	OrderID     string          `json:"order_id" binding:"required"`
	BookingData json.RawMessage `json:"booking_data" binding:"required"`
}

// PaymentReturnRequest is what the checkout page posts after the gateway redirect.
// BookingData is the client-held copy; when absent the server cache is used.
type PaymentReturnRequest struct {
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	RazorpayOrderID   string          `json:"razorpay_order_id"`
	RazorpaySignature string          `json:"razorpay_signature"`
	BookingData       json.RawMessage `json:"booking_data,omitempty"`
}

func (r PaymentReturnRequest) ToBrowserReturn() commands.BrowserReturn {
	raw := []byte(r.BookingData)
	if string(raw) == "null" {
		raw = nil
	}
	// a JSON string holding the payload is accepted as well
	var inner string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &inner) == nil {
		raw = []byte(inner)
	}
	return commands.BrowserReturn{
		Ref: booking.PaymentRef{
			OrderID:   r.RazorpayOrderID,
			PaymentID: r.RazorpayPaymentID,
			Signature: r.RazorpaySignature,
		},
		RawPayload: raw,
	}
}

type WebhookRequest struct {
	Event   string `json:"event" binding:"required"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Notes   Notes  `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID    string `json:"id"`
				Notes Notes  `json:"notes"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

func (r WebhookRequest) ToEvent() commands.WebhookEvent {
	orderID := r.Payload.Payment.Entity.OrderID
	if orderID == "" {
		orderID = r.Payload.Order.Entity.ID
	}
	return commands.WebhookEvent{
		Event:        r.Event,
		PaymentID:    r.Payload.Payment.Entity.ID,
		OrderID:      orderID,
		OrderNotes:   r.Payload.Order.Entity.Notes,
		PaymentNotes: r.Payload.Payment.Entity.Notes,
	}
}
