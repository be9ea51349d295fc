package booking

import "errors"

type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// OccupiesSlot reports whether a booking in this status still claims its interval.
func (s Status) OccupiesSlot() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// OccupyingStatuses is the filter used by availability reads.
func OccupyingStatuses() []Status {
	return []Status{StatusConfirmed, StatusInProgress}
}

type PaymentMode string

const (
	PaymentModeRazorpay PaymentMode = "razorpay"
)

var ErrMissingPaymentID = errors.New("payment id is required")

// PaymentRef identifies a gateway payment. PaymentID is the idempotency key
// and is stored as payment_txn_id on every booking row it produces.
type PaymentRef struct {
	OrderID   string
	PaymentID string
	Signature string
}

func (r PaymentRef) Validate() error {
	if r.PaymentID == "" {
		return ErrMissingPaymentID
	}
	return nil
}
