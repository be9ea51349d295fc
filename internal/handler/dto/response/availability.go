package response

import (
	"lounge-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// StationAvailabilityResponse always carries conflict_reason; it is null for free stations.
type StationAvailabilityResponse struct {
	StationID      uuid.UUID       `json:"station_id"`
	StationName    string          `json:"station_name"`
	StationType    string          `json:"station_type"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	IsAvailable    bool            `json:"is_available"`
	ConflictReason *string         `json:"conflict_reason" copier:"-"`
}

type AvailabilityResponse struct {
	OK             bool                          `json:"ok"`
	Availability   []StationAvailabilityResponse `json:"availability"`
	AvailableCount int                           `json:"available_count"`
	TotalCount     int                           `json:"total_count"`
}

func FromAvailabilityResult(res *queries.AvailabilityResult) (*AvailabilityResponse, error) {
	out := &AvailabilityResponse{
		OK:             true,
		Availability:   make([]StationAvailabilityResponse, 0, len(res.Stations)),
		AvailableCount: res.AvailableCount(),
		TotalCount:     len(res.Stations),
	}
	if err := copier.Copy(&out.Availability, res.Stations); err != nil {
		return nil, err
	}
	for i, st := range res.Stations {
		if st.ConflictReason != "" {
			reason := st.ConflictReason
			out.Availability[i].ConflictReason = &reason
		}
	}
	return out, nil
}
