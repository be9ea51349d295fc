package request

import (
	"time"

	"lounge-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateSlotBlockRequest struct {
	StationID   StationRefs `json:"station_id"`
	BookingDate string      `json:"booking_date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	// TTLSeconds of zero uses the server default; larger values are capped.
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}

func (r CreateSlotBlockRequest) ToParams() commands.CreateBlockParams {
	return commands.CreateBlockParams{
		StationRefs: r.StationID,
		Date:        r.BookingDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		TTL:         time.Duration(r.TTLSeconds) * time.Second,
	}
}

type ReleaseSlotBlocksRequest struct {
	BlockIDs []uuid.UUID `json:"block_ids" binding:"required,min=1"`
}
