package availability

import (
	"time"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/slotblock"

	"github.com/google/uuid"
)

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBooked      Reason = "Already booked for this time slot"
	ReasonBeingBooked Reason = "Currently being booked by another customer"
	ReasonInUse       Reason = "Station currently in use"
)

// ActiveSession is a walk-in or in-progress play session with no end time yet.
type ActiveSession struct {
	ID        uuid.UUID
	StationID uuid.UUID
	StartedAt time.Time
}

// StartMinuteIn is the session start as minutes since midnight in the lounge timezone.
func (s ActiveSession) StartMinuteIn(loc *time.Location) int {
	t := s.StartedAt.In(loc)
	return t.Hour()*60 + t.Minute()
}

type Options struct {
	// IgnoreSlotBlocks skips holds; a hold must never block its own confirmation.
	IgnoreSlotBlocks bool
	// ExcludePaymentTxnID drops bookings already written for this payment.
	ExcludePaymentTxnID string
}

type Request struct {
	StationIDs []uuid.UUID
	Slot       slot.Slot
	Now        time.Time
	Location   *time.Location
	Options    Options
}

// IsToday reports whether the requested date is the current lounge-local date.
func (r Request) IsToday() bool {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return r.Slot.Date() == r.Now.In(loc).Format(slot.DateLayout)
}

// Snapshot is everything read from storage for one request.
type Snapshot struct {
	Bookings []*booking.Booking
	Blocks   []*slotblock.Block
	Sessions []ActiveSession
}

type StationResult struct {
	StationID uuid.UUID
	Available bool
	Reason    Reason
}

// Evaluate decides availability per station. A station gets at most one reason,
// with precedence booking > block > session.
func Evaluate(req Request, snap Snapshot) []StationResult {
	booked := make(map[uuid.UUID]bool)
	for _, b := range snap.Bookings {
		if req.Options.ExcludePaymentTxnID != "" && b.PaymentTxnID() == req.Options.ExcludePaymentTxnID {
			continue
		}
		if b.Conflicts(req.Slot) {
			booked[b.StationID()] = true
		}
	}

	held := make(map[uuid.UUID]bool)
	if !req.Options.IgnoreSlotBlocks {
		for _, blk := range snap.Blocks {
			if blk.Holds(req.Slot, req.Now) {
				held[blk.StationID()] = true
			}
		}
	}

	inUse := make(map[uuid.UUID]bool)
	if req.IsToday() {
		loc := req.Location
		if loc == nil {
			loc = time.UTC
		}
		for _, s := range snap.Sessions {
			if req.Slot.ContainsMinute(s.StartMinuteIn(loc)) {
				inUse[s.StationID] = true
			}
		}
	}

	results := make([]StationResult, 0, len(req.StationIDs))
	for _, id := range req.StationIDs {
		reason := ReasonNone
		switch {
		case booked[id]:
			reason = ReasonBooked
		case held[id]:
			reason = ReasonBeingBooked
		case inUse[id]:
			reason = ReasonInUse
		}
		results = append(results, StationResult{
			StationID: id,
			Available: reason == ReasonNone,
			Reason:    reason,
		})
	}
	return results
}

// FirstConflict returns the first unavailable station, if any.
func FirstConflict(results []StationResult) (StationResult, bool) {
	for _, r := range results {
		if !r.Available {
			return r, true
		}
	}
	return StationResult{}, false
}
