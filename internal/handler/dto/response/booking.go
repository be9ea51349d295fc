package response

import (
	"time"

	"lounge-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CommitResponse struct {
	OK               bool        `json:"ok"`
	BookingIDs       []uuid.UUID `json:"booking_ids"`
	AlreadyCommitted bool        `json:"already_committed"`
	CustomerID       *uuid.UUID  `json:"customer_id,omitempty" copier:"-"`
}

func FromCommitResult(res *commands.CommitResult) (*CommitResponse, error) {
	out := &CommitResponse{OK: true}
	if err := copier.Copy(out, res); err != nil {
		return nil, err
	}
	if res.CustomerID != uuid.Nil {
		id := res.CustomerID
		out.CustomerID = &id
	}
	return out, nil
}

type SlotBlockResponse struct {
	OK        bool        `json:"ok"`
	BlockIDs  []uuid.UUID `json:"block_ids"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func FromCreateBlockResult(res *commands.CreateBlockResult) (*SlotBlockResponse, error) {
	out := &SlotBlockResponse{OK: true}
	if err := copier.Copy(out, res); err != nil {
		return nil, err
	}
	return out, nil
}

type ReleaseResponse struct {
	OK       bool  `json:"ok"`
	Released int64 `json:"released"`
}

type CheckoutResponse struct {
	OK      bool              `json:"ok"`
	OrderID string            `json:"order_id"`
	Notes   map[string]string `json:"notes"`
}

type WebhookResponse struct {
	OK      bool                    `json:"ok"`
	Outcome commands.WebhookOutcome `json:"outcome"`
}
