package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lounge-booking/internal/domain/availability"
	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/slotblock"
	"lounge-booking/internal/domain/station"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequiredAvailabilityFields is echoed back on validation failures.
var RequiredAvailabilityFields = []string{"station_id", "booking_date", "start_time", "end_time"}

type AvailabilityQuery struct {
	StationRefs []string
	Date        string
	StartTime   string
	EndTime     string
}

type StationAvailability struct {
	StationID      uuid.UUID       `json:"station_id"`
	StationName    string          `json:"station_name"`
	StationType    string          `json:"station_type"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	IsAvailable    bool            `json:"is_available"`
	ConflictReason string          `json:"conflict_reason"`
}

type AvailabilityResult struct {
	Stations []StationAvailability
}

func (r *AvailabilityResult) AvailableCount() int {
	n := 0
	for _, s := range r.Stations {
		if s.IsAvailable {
			n++
		}
	}
	return n
}

// SlotConflict names the first station/slot pair that is no longer free.
type SlotConflict struct {
	StationID uuid.UUID
	Slot      slot.Slot
	Reason    availability.Reason
}

// ValidationError is always client-correctable; Received echoes what was sent.
type ValidationError struct {
	Reason   string
	Required []string
	Received map[string]any
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return errs.ErrValidation
}

// StationNotFoundError lists every unmatched reference together with the full
// catalog so callers can correct the request without another round trip.
type StationNotFoundError struct {
	Unmatched []string
	Catalog   []string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("station not found: %s", strings.Join(e.Unmatched, ", "))
}

func (e *StationNotFoundError) Unwrap() error {
	return errs.ErrStationNotFound
}

type AvailabilityQueries interface {
	CheckAvailability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error)
	ResolveStations(ctx context.Context, refs []string) ([]*station.Station, error)
	FindConflict(ctx context.Context, stationIDs []uuid.UUID, slots []slot.Slot, opts availability.Options) (*SlotConflict, error)
}

type AvailabilityReadStore interface {
	ListStations(ctx context.Context) ([]*station.Station, error)
	BookingsOn(ctx context.Context, stationIDs []uuid.UUID, date string, statuses []booking.Status) ([]*booking.Booking, error)
	ActiveBlocksOn(ctx context.Context, stationIDs []uuid.UUID, date string, now time.Time) ([]*slotblock.Block, error)
	OpenSessions(ctx context.Context, stationIDs []uuid.UUID) ([]availability.ActiveSession, error)
}

type availabilityQueriesImpl struct {
	readStore AvailabilityReadStore
	clock     clock.Clock
	location  *time.Location
}

func NewAvailabilityQueries(readStore AvailabilityReadStore, clk clock.Clock, location *time.Location) AvailabilityQueries {
	if location == nil {
		location = time.UTC
	}
	return &availabilityQueriesImpl{
		readStore: readStore,
		clock:     clk,
		location:  location,
	}
}

func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, in AvailabilityQuery) (*AvailabilityResult, error) {
	requested, err := validateAvailabilityQuery(in)
	if err != nil {
		return nil, err
	}

	stations, err := q.ResolveStations(ctx, in.StationRefs)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID())
	}

	results, err := q.evaluate(ctx, ids, requested, availability.Options{})
	if err != nil {
		return nil, err
	}

	out := &AvailabilityResult{Stations: make([]StationAvailability, 0, len(stations))}
	for i, s := range stations {
		out.Stations = append(out.Stations, StationAvailability{
			StationID:      s.ID(),
			StationName:    s.Name(),
			StationType:    string(s.Type()),
			HourlyRate:     s.HourlyRate(),
			IsAvailable:    results[i].Available,
			ConflictReason: string(results[i].Reason),
		})
	}
	return out, nil
}

func (q *availabilityQueriesImpl) ResolveStations(ctx context.Context, refs []string) ([]*station.Station, error) {
	refs = station.SplitRefs(refs)
	if len(refs) == 0 {
		return nil, &ValidationError{
			Reason:   "station_id is required",
			Required: RequiredAvailabilityFields,
			Received: map[string]any{"station_id": refs},
		}
	}

	catalog, err := q.readStore.ListStations(ctx)
	if err != nil {
		return nil, errs.Storage(err, "list stations")
	}

	res := station.Resolve(refs, catalog)
	if len(res.Unmatched) > 0 {
		return nil, &StationNotFoundError{
			Unmatched: res.Unmatched,
			Catalog:   station.Names(catalog),
		}
	}
	return res.Stations, nil
}

// FindConflict re-runs the availability evaluation for every slot and returns the
// first conflict found, or nil when all stations are free for all slots.
func (q *availabilityQueriesImpl) FindConflict(
	ctx context.Context,
	stationIDs []uuid.UUID,
	slots []slot.Slot,
	opts availability.Options,
) (*SlotConflict, error) {
	for _, s := range slots {
		results, err := q.evaluate(ctx, stationIDs, s, opts)
		if err != nil {
			return nil, err
		}
		if c, ok := availability.FirstConflict(results); ok {
			return &SlotConflict{StationID: c.StationID, Slot: s, Reason: c.Reason}, nil
		}
	}
	return nil, nil
}

// evaluate reads the three conflict sources and never reports partial results.
func (q *availabilityQueriesImpl) evaluate(
	ctx context.Context,
	stationIDs []uuid.UUID,
	requested slot.Slot,
	opts availability.Options,
) ([]availability.StationResult, error) {
	req := availability.Request{
		StationIDs: stationIDs,
		Slot:       requested,
		Now:        q.clock.Now(),
		Location:   q.location,
		Options:    opts,
	}

	var snap availability.Snapshot
	var err error

	snap.Bookings, err = q.readStore.BookingsOn(ctx, stationIDs, requested.Date(), booking.OccupyingStatuses())
	if err != nil {
		return nil, errs.Storage(err, "read bookings")
	}

	if !opts.IgnoreSlotBlocks {
		snap.Blocks, err = q.readStore.ActiveBlocksOn(ctx, stationIDs, requested.Date(), req.Now)
		if err != nil {
			return nil, errs.Storage(err, "read slot blocks")
		}
	}

	if req.IsToday() {
		snap.Sessions, err = q.readStore.OpenSessions(ctx, stationIDs)
		if err != nil {
			return nil, errs.Storage(err, "read open sessions")
		}
	}

	return availability.Evaluate(req, snap), nil
}

func validateAvailabilityQuery(in AvailabilityQuery) (slot.Slot, error) {
	received := map[string]any{
		"station_id":   in.StationRefs,
		"booking_date": in.Date,
		"start_time":   in.StartTime,
		"end_time":     in.EndTime,
	}
	if len(station.SplitRefs(in.StationRefs)) == 0 || in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return slot.Slot{}, &ValidationError{
			Reason:   "missing required fields",
			Required: RequiredAvailabilityFields,
			Received: received,
		}
	}
	s, err := slot.NewSlot(strings.TrimSpace(in.Date), strings.TrimSpace(in.StartTime), strings.TrimSpace(in.EndTime))
	if err != nil {
		return slot.Slot{}, &ValidationError{
			Reason:   err.Error(),
			Required: RequiredAvailabilityFields,
			Received: received,
		}
	}
	return s, nil
}
