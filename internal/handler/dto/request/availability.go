package request

import "lounge-booking/internal/usecase/queries"

type AvailabilityRequest struct {
	StationID   StationRefs `json:"station_id"`
	BookingDate string      `json:"booking_date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
}

func (r AvailabilityRequest) ToQuery() queries.AvailabilityQuery {
	return queries.AvailabilityQuery{
		StationRefs: r.StationID,
		Date:        r.BookingDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}
