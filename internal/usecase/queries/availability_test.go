//go:build unit

package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"lounge-booking/internal/domain/availability"
	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/station"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type AvailabilityQueriesTestSuite struct {
	suite.Suite
	store   *memstore.Store
	clock   *clock.MockClock
	queries queries.AvailabilityQueries
	blocks  commands.SlotBlockCommands
	ps5A    *station.Station
	ps5B    *station.Station
	pool    *station.Station
}

func TestAvailabilityQueriesSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityQueriesTestSuite))
}

func (s *AvailabilityQueriesTestSuite) SetupTest() {
	s.ps5A = s.station("PS5 Console A", station.TypeConsole)
	s.ps5B = s.station("PS5 Console B", station.TypeConsole)
	s.pool = s.station("Pool Table", station.TypeTable)

	s.store = memstore.New(s.ps5A, s.ps5B, s.pool)
	s.clock = clock.NewMockClock(time.Date(2025, 1, 20, 12, 0, 0, 0, ist))
	s.queries = queries.NewAvailabilityQueries(s.store, s.clock, ist)
	s.blocks = commands.NewSlotBlockUseCase(s.store, s.queries, s.clock, config.NewTestConfig().Booking, slog.New(slog.DiscardHandler))
}

func (s *AvailabilityQueriesTestSuite) station(name string, kind station.Type) *station.Station {
	st, err := station.NewStation(uuid.New(), name, kind, decimal.NewFromInt(150))
	s.Require().NoError(err)
	return st
}

func (s *AvailabilityQueriesTestSuite) book(st *station.Station, date, start, end, paymentID string) {
	sl, err := slot.NewSlot(date, start, end)
	s.Require().NoError(err)
	s.store.SeedBooking(booking.NewConfirmedBooking(booking.NewBookingParams{
		StationID:    st.ID(),
		CustomerID:   uuid.New(),
		Slot:         sl,
		PaymentTxnID: paymentID,
	}, s.clock.Now()))
}

func (s *AvailabilityQueriesTestSuite) check(refs []string, date, start, end string) *queries.AvailabilityResult {
	res, err := s.queries.CheckAvailability(context.Background(), queries.AvailabilityQuery{
		StationRefs: refs,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
	})
	s.Require().NoError(err)
	return res
}

func (s *AvailabilityQueriesTestSuite) TestAllFree() {
	res := s.check([]string{s.ps5A.ID().String(), "pool"}, "2025-01-21", "14:00", "15:00")

	s.Require().Len(res.Stations, 2)
	s.Equal(2, res.AvailableCount())
	s.Equal("PS5 Console A", res.Stations[0].StationName)
	s.Equal("Pool Table", res.Stations[1].StationName)
	s.Equal("table", res.Stations[1].StationType)
	s.Empty(res.Stations[0].ConflictReason)
}

func (s *AvailabilityQueriesTestSuite) TestBookedSlot() {
	s.book(s.ps5A, "2025-01-21", "14:00", "16:00", "pay_x")

	tests := []struct {
		name       string
		start, end string
		available  bool
	}{
		{name: "inside", start: "14:30", end: "15:00", available: false},
		{name: "partial overlap", start: "15:30", end: "16:30", available: false},
		{name: "back to back before", start: "13:00", end: "14:00", available: true},
		{name: "back to back after", start: "16:00", end: "17:00", available: true},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.check([]string{"PS5 Console A"}, "2025-01-21", tt.start, tt.end)
			s.Equal(tt.available, res.Stations[0].IsAvailable)
			if !tt.available {
				s.Equal(string(availability.ReasonBooked), res.Stations[0].ConflictReason)
			}
		})
	}
}

func (s *AvailabilityQueriesTestSuite) TestCancelledBookingFreesSlot() {
	sl, err := slot.NewSlot("2025-01-21", "14:00", "15:00")
	s.Require().NoError(err)
	cancelled, err := booking.ReconstructBooking(uuid.New(), booking.NewBookingParams{
		StationID: s.ps5A.ID(),
		Slot:      sl,
	}, booking.StatusCancelled, s.clock.Now())
	s.Require().NoError(err)
	s.store.SeedBooking(cancelled)

	res := s.check([]string{"PS5 Console A"}, "2025-01-21", "14:00", "15:00")
	s.True(res.Stations[0].IsAvailable)
}

func (s *AvailabilityQueriesTestSuite) TestOpenSessionOnlyCountsToday() {
	s.store.SeedSession(availability.ActiveSession{
		ID:        uuid.New(),
		StationID: s.ps5B.ID(),
		StartedAt: time.Date(2025, 1, 20, 11, 30, 0, 0, ist).UTC(),
	})

	today := s.check([]string{"PS5 Console B"}, "2025-01-20", "11:00", "12:30")
	s.False(today.Stations[0].IsAvailable)
	s.Equal(string(availability.ReasonInUse), today.Stations[0].ConflictReason)

	later := s.check([]string{"PS5 Console B"}, "2025-01-20", "13:00", "14:00")
	s.True(later.Stations[0].IsAvailable, "session start outside the requested slot")

	tomorrow := s.check([]string{"PS5 Console B"}, "2025-01-21", "11:00", "12:30")
	s.True(tomorrow.Stations[0].IsAvailable)
}

func (s *AvailabilityQueriesTestSuite) TestReasonPrecedence() {
	s.book(s.ps5A, "2025-01-20", "14:00", "15:00", "pay_x")
	_, err := s.blocks.CreateBlock(context.Background(), commands.CreateBlockParams{
		StationRefs: []string{"PS5 Console A"},
		Date:        "2025-01-20",
		StartTime:   "14:00",
		EndTime:     "15:00",
	})
	s.Require().NoError(err)

	res := s.check([]string{"PS5 Console A"}, "2025-01-20", "14:00", "15:00")
	s.Equal(string(availability.ReasonBooked), res.Stations[0].ConflictReason)
}

// A hold blocks other customers until it expires, then the slot frees up with no cleanup.
func (s *AvailabilityQueriesTestSuite) TestHoldExpiresOnItsOwn() {
	hold, err := s.blocks.CreateBlock(context.Background(), commands.CreateBlockParams{
		StationRefs: []string{"PS5 Console A"},
		Date:        "2025-01-21",
		StartTime:   "18:00",
		EndTime:     "19:00",
	})
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(10*time.Minute), hold.ExpiresAt)

	s.clock.Add(5 * time.Minute)
	res := s.check([]string{"PS5 Console A"}, "2025-01-21", "18:00", "19:00")
	s.False(res.Stations[0].IsAvailable)
	s.Equal(string(availability.ReasonBeingBooked), res.Stations[0].ConflictReason)

	overlapping := s.check([]string{"PS5 Console A"}, "2025-01-21", "18:30", "19:30")
	s.True(overlapping.Stations[0].IsAvailable, "holds match the exact slot only")

	s.clock.Add(6 * time.Minute)
	res = s.check([]string{"PS5 Console A"}, "2025-01-21", "18:00", "19:00")
	s.True(res.Stations[0].IsAvailable)
}

func (s *AvailabilityQueriesTestSuite) TestReleasedHoldFreesSlot() {
	hold, err := s.blocks.CreateBlock(context.Background(), commands.CreateBlockParams{
		StationRefs: []string{"PS5 Console A", "PS5 Console B"},
		Date:        "2025-01-21",
		StartTime:   "18:00",
		EndTime:     "19:00",
	})
	s.Require().NoError(err)
	s.Require().Len(hold.BlockIDs, 2)

	n, err := s.blocks.ReleaseBlocks(context.Background(), hold.BlockIDs)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	res := s.check([]string{"PS5 Console A", "PS5 Console B"}, "2025-01-21", "18:00", "19:00")
	s.Equal(2, res.AvailableCount())
}

func (s *AvailabilityQueriesTestSuite) TestUnknownStation() {
	_, err := s.queries.CheckAvailability(context.Background(), queries.AvailabilityQuery{
		StationRefs: []string{"PS5 Console A", "Air Hockey", uuid.NewString()},
		Date:        "2025-01-21",
		StartTime:   "14:00",
		EndTime:     "15:00",
	})

	var notFound *queries.StationNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Len(notFound.Unmatched, 2)
	s.Equal("Air Hockey", notFound.Unmatched[0])
	s.ElementsMatch([]string{"PS5 Console A", "PS5 Console B", "Pool Table"}, notFound.Catalog)
}

func (s *AvailabilityQueriesTestSuite) TestValidation() {
	tests := []struct {
		name string
		in   queries.AvailabilityQuery
	}{
		{name: "no stations", in: queries.AvailabilityQuery{Date: "2025-01-21", StartTime: "14:00", EndTime: "15:00"}},
		{name: "blank station refs", in: queries.AvailabilityQuery{StationRefs: []string{" ", ""}, Date: "2025-01-21", StartTime: "14:00", EndTime: "15:00"}},
		{name: "missing date", in: queries.AvailabilityQuery{StationRefs: []string{"pool"}, StartTime: "14:00", EndTime: "15:00"}},
		{name: "end before start", in: queries.AvailabilityQuery{StationRefs: []string{"pool"}, Date: "2025-01-21", StartTime: "15:00", EndTime: "14:00"}},
		{name: "malformed time", in: queries.AvailabilityQuery{StationRefs: []string{"pool"}, Date: "2025-01-21", StartTime: "2pm", EndTime: "15:00"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.queries.CheckAvailability(context.Background(), tt.in)
			var validation *queries.ValidationError
			s.Require().ErrorAs(err, &validation)
			s.Equal(queries.RequiredAvailabilityFields, validation.Required)
			s.True(errs.Is(err, errs.ErrValidation))
		})
	}
}

func (s *AvailabilityQueriesTestSuite) TestStorageFailureIsNeverPartial() {
	s.store.Faults.ListStations = errors.New("connection refused")

	res, err := s.queries.CheckAvailability(context.Background(), queries.AvailabilityQuery{
		StationRefs: []string{"pool"},
		Date:        "2025-01-21",
		StartTime:   "14:00",
		EndTime:     "15:00",
	})
	s.Nil(res)
	s.True(errs.Is(err, errs.ErrStorage))
}

func (s *AvailabilityQueriesTestSuite) TestFindConflict() {
	s.book(s.ps5B, "2025-01-21", "15:00", "16:00", "pay_mine")

	slots := []slot.Slot{s.slot("2025-01-21", "14:00", "15:00"), s.slot("2025-01-21", "15:00", "16:00")}
	ids := []uuid.UUID{s.ps5A.ID(), s.ps5B.ID()}

	conflict, err := s.queries.FindConflict(context.Background(), ids, slots, availability.Options{})
	s.Require().NoError(err)
	s.Require().NotNil(conflict)
	s.Equal(s.ps5B.ID(), conflict.StationID)
	s.Equal("15:00", conflict.Slot.StartTime())
	s.Equal(availability.ReasonBooked, conflict.Reason)

	conflict, err = s.queries.FindConflict(context.Background(), ids, slots, availability.Options{ExcludePaymentTxnID: "pay_mine"})
	s.Require().NoError(err)
	s.Nil(conflict, "rows of the same payment are not a competitor")
}

func (s *AvailabilityQueriesTestSuite) slot(date, start, end string) slot.Slot {
	sl, err := slot.NewSlot(date, start, end)
	s.Require().NoError(err)
	return sl
}

func TestResolveStations_SubstringFirstMatch(t *testing.T) {
	a, err := station.NewStation(uuid.New(), "PS5 Console A", station.TypeConsole, decimal.Zero)
	require.NoError(t, err)
	b, err := station.NewStation(uuid.New(), "PS5 Console B", station.TypeConsole, decimal.Zero)
	require.NoError(t, err)

	q := queries.NewAvailabilityQueries(memstore.New(a, b), clock.NewMockClock(time.Now()), nil)
	got, err := q.ResolveStations(context.Background(), []string{"ps5 console"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID(), got[0].ID())
}
