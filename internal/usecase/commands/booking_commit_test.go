//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/customer"
	"lounge-booking/internal/domain/station"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/internal/usecase/shared"
	"lounge-booking/tests/common/builder"
	"lounge-booking/tests/common/memstore"
	commandsmock "lounge-booking/tests/mock/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type commitFixture struct {
	store     *memstore.Store
	clock     *clock.MockClock
	verifier  *commandsmock.MockPaymentVerifier
	blocks    commands.SlotBlockCommands
	committer commands.BookingCommitter
	ps5A      *station.Station
	ps5B      *station.Station
}

func mustStation(t *testing.T, name string, kind station.Type, rate string) *station.Station {
	t.Helper()
	s, err := station.NewStation(uuid.New(), name, kind, decimal.RequireFromString(rate))
	require.NoError(t, err)
	return s
}

func newCommitFixture(t *testing.T, now time.Time) *commitFixture {
	t.Helper()

	cfg := config.NewTestConfig()
	ps5A := mustStation(t, "PS5 Console A", station.TypeConsole, "150")
	ps5B := mustStation(t, "PS5 Console B", station.TypeConsole, "150")
	pool := mustStation(t, "Pool Table", station.TypeTable, "200")

	store := memstore.New(ps5A, ps5B, pool)
	clk := clock.NewMockClock(now)
	logger := slog.New(slog.DiscardHandler)

	ctrl := gomock.NewController(t)
	verifier := commandsmock.NewMockPaymentVerifier(ctrl)

	avail := queries.NewAvailabilityQueries(store, clk, ist)
	blocks := commands.NewSlotBlockUseCase(store, avail, clk, cfg.Booking, logger)
	committer := commands.NewBookingCommitUseCase(store, store, avail, blocks, verifier, clk, cfg.Booking, cfg.Payment, logger)

	return &commitFixture{
		store:     store,
		clock:     clk,
		verifier:  verifier,
		blocks:    blocks,
		committer: committer,
		ps5A:      ps5A,
		ps5B:      ps5B,
	}
}

func (f *commitFixture) paid() {
	f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
}

func ref(paymentID string) booking.PaymentRef {
	return booking.PaymentRef{OrderID: "order_" + paymentID, PaymentID: paymentID, Signature: "sig"}
}

func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return out
}

// dayBefore keeps the requested date off "today" so open sessions never apply.
var dayBefore = time.Date(2025, 1, 19, 10, 0, 0, 0, ist)

func TestCommit_Success(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()

	payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) {
		b.Slots = [][2]string{{"14:00", "15:00"}, {"15:00", "16:00"}}
		b.FinalPrice = "300"
	}).BuildDomain()

	res, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceBrowserReturn)
	require.NoError(t, err)
	assert.False(t, res.AlreadyCommitted)
	require.Len(t, res.BookingIDs, 2)

	rows := f.store.BookingsForPayment("pay_1")
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, f.ps5A.ID(), r.StationID())
		assert.Equal(t, booking.StatusConfirmed, r.Status())
		assert.True(t, r.Pricing().FinalPrice.Equal(decimal.RequireFromString("150")), "price split across rows")
		assert.Equal(t, res.CustomerID, r.CustomerID())
		assert.Equal(t, 60, r.DurationMinutes())
	}
	assert.True(t, f.store.Claimed("pay_1"))

	customers := f.store.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "9876543210", customers[0].Phone().String())
	assert.True(t, customer.IsCustomerCode(customers[0].CustomID()))
	assert.Equal(t, 1, customers[0].VisitCount())
	assert.True(t, customers[0].TotalSpend().Equal(decimal.RequireFromString("300")))

	events := f.store.EventsOn(shared.TopicBookingConfirmed)
	require.Len(t, events, 1)
	assert.Equal(t, "pay_1", events[0].AggregateID)
	assert.Empty(t, f.store.EventsOn(shared.TopicReconciliationNeeded))
}

func TestCommit_RepeatedCallReturnsSameRows(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()
	payload := builder.NewPayloadBuilder().BuildDomain()

	first, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceWebhook)
	require.NoError(t, err)

	second, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceBrowserReturn)
	require.NoError(t, err)

	assert.True(t, second.AlreadyCommitted)
	assert.Empty(t, cmp.Diff(sortedIDs(first.BookingIDs), sortedIDs(second.BookingIDs)))
	assert.Len(t, f.store.Bookings(), 1)
	assert.Len(t, f.store.EventsOn(shared.TopicBookingConfirmed), 1)
	assert.Equal(t, 1, f.store.Customers()[0].VisitCount())
}

func TestCommit_ConcurrentTriggersCommitOnce(t *testing.T) {
	for _, n := range []int{2, 8} {
		t.Run(fmt.Sprintf("%d triggers", n), func(t *testing.T) {
			f := newCommitFixture(t, dayBefore)
			f.paid()
			payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) {
				b.StationRefs = []string{"PS5 Console A", "PS5 Console B"}
				b.Slots = [][2]string{{"18:00", "19:00"}, {"19:00", "20:00"}}
			}).BuildDomain()

			var (
				wg      sync.WaitGroup
				start   = make(chan struct{})
				results = make([]*commands.CommitResult, n)
				errsOut = make([]error, n)
			)
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					source := shared.SourceWebhook
					if i%2 == 1 {
						source = shared.SourceBrowserReturn
					}
					results[i], errsOut[i] = f.committer.Commit(context.Background(), ref("pay_race"), payload, source)
				}()
			}
			close(start)
			wg.Wait()

			fresh := 0
			for i := range n {
				require.NoError(t, errsOut[i])
				require.Len(t, results[i].BookingIDs, 4)
				if !results[i].AlreadyCommitted {
					fresh++
				}
				assert.Empty(t, cmp.Diff(sortedIDs(results[0].BookingIDs), sortedIDs(results[i].BookingIDs)))
			}
			assert.Equal(t, 1, fresh, "exactly one trigger inserts")
			assert.Len(t, f.store.BookingsForPayment("pay_race"), 4)
			assert.Len(t, f.store.EventsOn(shared.TopicBookingConfirmed), 1)

			customers := f.store.Customers()
			require.Len(t, customers, 1, "phone uniqueness holds under the race")
			assert.Equal(t, 1, customers[0].VisitCount())
		})
	}
}

func TestCommit_CompetingPaymentsForSameSlot(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()

	payloads := []booking.Payload{
		builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) { b.Phone = "9000000001" }).BuildDomain(),
		builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) { b.Phone = "9000000002" }).BuildDomain(),
	}

	var wg sync.WaitGroup
	errsOut := make([]error, len(payloads))
	for i, p := range payloads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errsOut[i] = f.committer.Commit(context.Background(), ref("pay_"+p.Customer.Phone), p, shared.SourceWebhook)
		}()
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errsOut {
		switch {
		case err == nil:
			ok++
		case errs.Is(err, errs.ErrSlotNoLongerAvailable):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, taken)
	assert.Len(t, f.store.Bookings(), 1)
	assert.Len(t, f.store.EventsOn(shared.TopicReconciliationNeeded), 1)
}

func TestCommit_VerificationFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(v *commandsmock.MockPaymentVerifier)
	}{
		{
			name: "gateway says not paid",
			setup: func(v *commandsmock.MockPaymentVerifier) {
				v.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "gateway unreachable",
			setup: func(v *commandsmock.MockPaymentVerifier) {
				v.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, errors.New("dial tcp: timeout"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommitFixture(t, dayBefore)
			tt.setup(f.verifier)

			_, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceBrowserReturn)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrPaymentInvalid))
			assert.Empty(t, f.store.Bookings())
			assert.Empty(t, f.store.Customers())
			assert.Empty(t, f.store.Events(), "unverified payments are never escalated")
		})
	}

	t.Run("missing payment id", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		_, err := f.committer.Commit(context.Background(), booking.PaymentRef{OrderID: "order_1"}, builder.NewPayloadBuilder().BuildDomain(), shared.SourceWebhook)
		assert.True(t, errs.Is(err, errs.ErrPaymentInvalid))
	})
}

func TestCommit_SlotAlreadyBooked(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()

	other := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) { b.Phone = "9000000009" }).BuildDomain()
	_, err := f.committer.Commit(context.Background(), ref("pay_first"), other, shared.SourceWebhook)
	require.NoError(t, err)

	payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) {
		b.Slots = [][2]string{{"14:30", "15:30"}}
	}).BuildDomain()
	_, err = f.committer.Commit(context.Background(), ref("pay_second"), payload, shared.SourceBrowserReturn)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrSlotNoLongerAvailable))
	assert.Empty(t, f.store.BookingsForPayment("pay_second"))
	assert.False(t, f.store.Claimed("pay_second"))

	escalations := f.store.EventsOn(shared.TopicReconciliationNeeded)
	require.Len(t, escalations, 1)
	assert.Equal(t, "pay_second", escalations[0].AggregateID)
	assert.Contains(t, string(escalations[0].Payload), "slot_no_longer_available")
}

func TestCommit_OwnHoldDoesNotBlock(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()

	hold, err := f.blocks.CreateBlock(context.Background(), commands.CreateBlockParams{
		StationRefs: []string{"PS5 Console A"},
		Date:        "2025-01-20",
		StartTime:   "14:00",
		EndTime:     "15:00",
	})
	require.NoError(t, err)
	require.Len(t, hold.BlockIDs, 1)

	_, err = f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceBrowserReturn)
	require.NoError(t, err)

	blocks := f.store.Blocks()
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].IsConfirmed())
}

func TestCommit_CustomerResolution(t *testing.T) {
	t.Run("reuses customer found by normalized phone", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		existing, err := customer.NewCustomer("Asha", customer.PhoneFromStored("9876543210"), "", "CUSAAAAAA", dayBefore)
		require.NoError(t, err)
		f.store.SeedCustomer(existing)

		payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) { b.Phone = "+91 98765-43210" }).BuildDomain()
		res, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, existing.ID(), res.CustomerID)
		assert.Len(t, f.store.Customers(), 1)
	})

	t.Run("adopts the customer created by a concurrent commit", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()

		winner, err := customer.NewCustomer("Asha", customer.PhoneFromStored("9876543210"), "", "CUSWINNER", dayBefore)
		require.NoError(t, err)
		var once sync.Once
		f.store.BeforeCustomerCreate = func(*customer.Customer) {
			once.Do(func() { f.store.SeedCustomer(winner) })
		}

		res, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, winner.ID(), res.CustomerID)
		assert.Len(t, f.store.Customers(), 1)
	})

	t.Run("resolves customer by code when phone is absent", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		existing, err := customer.NewCustomer("Ravi", customer.PhoneFromStored("9123456789"), "", "CUSRAVI01", dayBefore)
		require.NoError(t, err)
		f.store.SeedCustomer(existing)

		payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) {
			b.Phone = ""
			b.CustomerRef = "CUSRAVI01"
		}).BuildDomain()
		res, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, existing.ID(), res.CustomerID)
	})

	t.Run("blank name falls back to a default", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) { b.Name = "" }).BuildDomain()

		_, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, "Guest", f.store.Customers()[0].Name())
	})
}

func TestCommit_InvalidPayloadEscalates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *builder.PayloadBuilder)
		reason string
	}{
		{name: "unknown station", mutate: func(b *builder.PayloadBuilder) { b.StationRefs = []string{"Air Hockey"} }, reason: "unknown_station"},
		{name: "overlapping slots", mutate: func(b *builder.PayloadBuilder) {
			b.Slots = [][2]string{{"14:00", "15:00"}, {"14:30", "15:30"}}
		}, reason: "invalid_payload"},
		{name: "no slots", mutate: func(b *builder.PayloadBuilder) { b.Slots = nil }, reason: "invalid_payload"},
		{name: "bad phone", mutate: func(b *builder.PayloadBuilder) { b.Phone = "12345" }, reason: "invalid_customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommitFixture(t, dayBefore)
			f.paid()

			_, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().With(tt.mutate).BuildDomain(), shared.SourceWebhook)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrInvalidPayload), "got %v", err)
			assert.Empty(t, f.store.Bookings())

			escalations := f.store.EventsOn(shared.TopicReconciliationNeeded)
			require.Len(t, escalations, 1)
			assert.Contains(t, string(escalations[0].Payload), tt.reason)
		})
	}
}

func TestCommit_StorageFailures(t *testing.T) {
	t.Run("idempotency probe unavailable", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		f.store.Faults.BookingIDsByPayment = errors.New("connection reset")

		_, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceWebhook)
		assert.True(t, errs.Is(err, errs.ErrStorage))
		assert.Empty(t, f.store.Bookings())
	})

	t.Run("insert failure rolls back the claim", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		f.store.Faults.CreateBookings = errors.New("disk full")

		_, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceWebhook)
		assert.True(t, errs.Is(err, errs.ErrStorage))
		assert.False(t, f.store.Claimed("pay_1"))
		assert.Empty(t, f.store.EventsOn(shared.TopicBookingConfirmed))
	})

	t.Run("post-commit steps are best effort", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()
		f.store.Faults.RecordVisit = errors.New("timeout")
		f.store.Faults.ConfirmBlocks = errors.New("timeout")

		res, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceWebhook)
		require.NoError(t, err)
		assert.Len(t, res.BookingIDs, 1)
	})
}

func TestCommit_PerRowPricing(t *testing.T) {
	f := newCommitFixture(t, dayBefore)
	f.paid()

	payload := builder.NewPayloadBuilder().With(func(b *builder.PayloadBuilder) {
		b.StationRefs = []string{"PS5 Console A", "PS5 Console B", "Pool Table"}
		b.FinalPrice = "100"
	}).BuildDomain()

	_, err := f.committer.Commit(context.Background(), ref("pay_1"), payload, shared.SourceWebhook)
	require.NoError(t, err)

	var prices []decimal.Decimal
	for _, r := range f.store.BookingsForPayment("pay_1") {
		prices = append(prices, r.Pricing().FinalPrice)
	}
	want := []decimal.Decimal{
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.33"),
	}
	assert.Empty(t, cmp.Diff(want, prices, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }), cmpopts.EquateEmpty()))
}

func TestEscalate(t *testing.T) {
	t.Run("paid payment with unreadable payload writes a reconciliation event", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()

		res, err := f.committer.Escalate(context.Background(), ref("pay_1"), shared.SourceWebhook, booking.ErrMalformedPayload)
		assert.Nil(t, res)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrInvalidPayload))
		assert.False(t, f.store.Claimed("pay_1"))

		escalations := f.store.EventsOn(shared.TopicReconciliationNeeded)
		require.Len(t, escalations, 1)
		assert.Equal(t, "pay_1", escalations[0].AggregateID)
		assert.Contains(t, string(escalations[0].Payload), "invalid_payload")
	})

	t.Run("already booked payment is reported as committed", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.paid()

		first, err := f.committer.Commit(context.Background(), ref("pay_1"), builder.NewPayloadBuilder().BuildDomain(), shared.SourceBrowserReturn)
		require.NoError(t, err)

		res, err := f.committer.Escalate(context.Background(), ref("pay_1"), shared.SourceWebhook, booking.ErrMalformedPayload)
		require.NoError(t, err)
		assert.True(t, res.AlreadyCommitted)
		assert.Equal(t, sortedIDs(first.BookingIDs), sortedIDs(res.BookingIDs))
		assert.Empty(t, f.store.EventsOn(shared.TopicReconciliationNeeded))
	})

	t.Run("unverified payment is rejected without an event", func(t *testing.T) {
		f := newCommitFixture(t, dayBefore)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.committer.Escalate(context.Background(), ref("pay_1"), shared.SourceWebhook, booking.ErrMalformedPayload)
		assert.True(t, errs.Is(err, errs.ErrPaymentInvalid))
		assert.Empty(t, f.store.EventsOn(shared.TopicReconciliationNeeded))
	})
}
