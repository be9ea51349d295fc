package repository

import (
	"context"
	"time"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/slotblock"
	"lounge-booking/internal/infra/db"

	"github.com/google/uuid"
)

// AvailabilityReadStore gathers the catalog and the three conflict sources
// (bookings, blocks, open sessions) behind one read port.
type AvailabilityReadStore struct {
	*StationRepository
	bookings *BookingRepository
	blocks   *SlotBlockRepository
}

func NewAvailabilityReadStore(db db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		StationRepository: NewStationRepository(db),
		bookings:          NewBookingRepository(db),
		blocks:            NewSlotBlockRepository(db),
	}
}

func (s *AvailabilityReadStore) BookingsOn(
	ctx context.Context,
	stationIDs []uuid.UUID,
	date string,
	statuses []booking.Status,
) ([]*booking.Booking, error) {
	return s.bookings.BookingsOn(ctx, stationIDs, date, statuses)
}

func (s *AvailabilityReadStore) ActiveBlocksOn(
	ctx context.Context,
	stationIDs []uuid.UUID,
	date string,
	now time.Time,
) ([]*slotblock.Block, error) {
	return s.blocks.ActiveBlocksOn(ctx, stationIDs, date, now)
}
