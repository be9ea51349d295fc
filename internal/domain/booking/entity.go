package booking

import (
	"errors"
	"time"

	"lounge-booking/internal/domain/slot"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid booking status")

// Booking is one durable row per (station, slot). All rows created for a payment
// share PaymentTxnID and are written exactly once.
type Booking struct {
	id              uuid.UUID
	stationID       uuid.UUID
	customerID      uuid.UUID
	slot            slot.Slot
	durationMinutes int
	status          Status
	pricing         Pricing
	couponCode      string
	paymentMode     PaymentMode
	paymentTxnID    string
	notes           string
	createdAt       time.Time
}

type NewBookingParams struct {
	StationID       uuid.UUID
	CustomerID      uuid.UUID
	Slot            slot.Slot
	DurationMinutes int
	Pricing         Pricing
	CouponCode      string
	PaymentMode     PaymentMode
	PaymentTxnID    string
	Notes           string
}

// NewConfirmedBooking builds a row in the confirmed state, the only state the committer writes.
func NewConfirmedBooking(p NewBookingParams, now time.Time) *Booking {
	return &Booking{
		id:              uuid.New(),
		stationID:       p.StationID,
		customerID:      p.CustomerID,
		slot:            p.Slot,
		durationMinutes: p.DurationMinutes,
		status:          StatusConfirmed,
		pricing:         p.Pricing,
		couponCode:      p.CouponCode,
		paymentMode:     p.PaymentMode,
		paymentTxnID:    p.PaymentTxnID,
		notes:           p.Notes,
		createdAt:       now,
	}
}

func ReconstructBooking(
	id uuid.UUID,
	p NewBookingParams,
	status Status,
	createdAt time.Time,
) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	b := NewConfirmedBooking(p, createdAt)
	b.id = id
	b.status = status
	return b, nil
}

// Conflicts reports whether this row claims any instant of s.
func (b *Booking) Conflicts(s slot.Slot) bool {
	return b.status.OccupiesSlot() && b.slot.Overlaps(s)
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) StationID() uuid.UUID     { return b.stationID }
func (b *Booking) CustomerID() uuid.UUID    { return b.customerID }
func (b *Booking) Slot() slot.Slot          { return b.slot }
func (b *Booking) DurationMinutes() int     { return b.durationMinutes }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) Pricing() Pricing         { return b.pricing }
func (b *Booking) CouponCode() string       { return b.couponCode }
func (b *Booking) PaymentMode() PaymentMode { return b.paymentMode }
func (b *Booking) PaymentTxnID() string     { return b.paymentTxnID }
func (b *Booking) Notes() string            { return b.notes }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }

// BuildRows expands a payload into one booking per (station, slot) with pricing split
// evenly across all rows.
func BuildRows(
	stationIDs []uuid.UUID,
	slots []slot.Slot,
	p Payload,
	customerID uuid.UUID,
	ref PaymentRef,
	now time.Time,
) []*Booking {
	share := p.Pricing.Split(len(stationIDs) * len(slots))
	var notes string
	if ref.OrderID != "" {
		notes = "gateway order " + ref.OrderID
	}
	rows := make([]*Booking, 0, len(stationIDs)*len(slots))
	for _, stationID := range stationIDs {
		for _, s := range slots {
			rows = append(rows, NewConfirmedBooking(NewBookingParams{
				StationID:       stationID,
				CustomerID:      customerID,
				Slot:            s,
				DurationMinutes: p.RowDuration(s),
				Pricing:         share,
				CouponCode:      p.CouponCode,
				PaymentMode:     PaymentModeRazorpay,
				PaymentTxnID:    ref.PaymentID,
				Notes:           notes,
			}, now))
		}
	}
	return rows
}
