//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/infra/cache"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/internal/usecase/shared"
	"lounge-booking/tests/common/builder"
	commandsmock "lounge-booking/tests/mock/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// payloadMatcher compares decoded payloads by value; decimals decoded from JSON
// differ from literals in representation only.
type payloadMatcher struct{ want booking.Payload }

func payloadEq(want booking.Payload) gomock.Matcher { return payloadMatcher{want: want} }

func (m payloadMatcher) Matches(x any) bool {
	got, ok := x.(booking.Payload)
	return ok && cmp.Equal(m.want, got,
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmpopts.EquateEmpty())
}

func (m payloadMatcher) String() string { return fmt.Sprintf("payload equal to %+v", m.want) }

type PaymentTriggersTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	committer *commandsmock.MockBookingCommitter
	cache     commands.CheckoutCache
	triggers  commands.PaymentTriggers
	payload   *builder.PayloadBuilder
}

func TestPaymentTriggersSuite(t *testing.T) {
	suite.Run(t, new(PaymentTriggersTestSuite))
}

func (s *PaymentTriggersTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.committer = commandsmock.NewMockBookingCommitter(s.ctrl)
	s.cache = cache.NewMemoryCheckoutCache(time.Hour, clock.NewMockClock(time.Now()))
	s.triggers = commands.NewPaymentTriggers(s.committer, s.cache, slog.New(slog.DiscardHandler))
	s.payload = builder.NewPayloadBuilder()
}

func (s *PaymentTriggersTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PaymentTriggersTestSuite) notes() map[string]string {
	return booking.SplitNotes(string(s.payload.BuildCompact()), booking.NotesChunkSize)
}

func (s *PaymentTriggersTestSuite) committed(already bool) *commands.CommitResult {
	return &commands.CommitResult{BookingIDs: []uuid.UUID{uuid.New()}, AlreadyCommitted: already}
}

// ================================================================================
// Webhook
// ================================================================================

func (s *PaymentTriggersTestSuite) TestWebhook_PaidEventsCommit() {
	for _, event := range []string{commands.EventPaymentCaptured, commands.EventOrderPaid} {
		s.Run(event, func() {
			want := booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1"}
			s.committer.EXPECT().
				Commit(gomock.Any(), want, payloadEq(s.payload.BuildDomain()), shared.SourceWebhook).
				Return(s.committed(false), nil)

			res, err := s.triggers.HandleWebhook(context.Background(), commands.WebhookEvent{
				Event:      event,
				PaymentID:  "pay_1",
				OrderID:    "order_1",
				OrderNotes: s.notes(),
			})
			s.Require().NoError(err)
			s.Equal(commands.OutcomeCommitted, res.Outcome)
		})
	}
}

func (s *PaymentTriggersTestSuite) TestWebhook_PayloadSources() {
	chunked := booking.SplitNotes(string(s.payload.BuildCompact()), 40)
	s.Require().Greater(len(chunked), 1)

	tests := []struct {
		name   string
		event  commands.WebhookEvent
		cached bool
	}{
		{name: "order notes", event: commands.WebhookEvent{OrderNotes: s.notes()}},
		{name: "chunked order notes", event: commands.WebhookEvent{OrderNotes: chunked}},
		{name: "payment notes", event: commands.WebhookEvent{PaymentNotes: s.notes()}},
		{name: "server cache", cached: true},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			ev := tt.event
			ev.Event = commands.EventPaymentCaptured
			ev.PaymentID = "pay_" + tt.name
			ev.OrderID = "order_" + tt.name
			if tt.cached {
				_, err := s.triggers.StashCheckout(context.Background(), ev.OrderID, s.payload.BuildCompact())
				s.Require().NoError(err)
			}

			s.committer.EXPECT().
				Commit(gomock.Any(), gomock.Any(), payloadEq(s.payload.BuildDomain()), shared.SourceWebhook).
				Return(s.committed(false), nil)

			res, err := s.triggers.HandleWebhook(context.Background(), ev)
			s.Require().NoError(err)
			s.Equal(commands.OutcomeCommitted, res.Outcome)
		})
	}
}

func (s *PaymentTriggersTestSuite) TestWebhook_Outcomes() {
	tests := []struct {
		name      string
		commitErr error
		result    *commands.CommitResult
		want      commands.WebhookOutcome
		wantErr   bool
	}{
		{name: "already committed by browser return", result: s.committed(true), want: commands.OutcomeAlreadyCommitted},
		{name: "verification failed", commitErr: errs.ErrPaymentInvalid, want: commands.OutcomeRejected},
		{name: "slot taken", commitErr: errs.Mark(errors.New("taken"), errs.ErrSlotNoLongerAvailable), want: commands.OutcomeEscalated},
		{name: "bad payload", commitErr: errs.Mark(errors.New("bad"), errs.ErrInvalidPayload), want: commands.OutcomeEscalated},
		{name: "storage failure asks for redelivery", commitErr: errs.Mark(errors.New("down"), errs.ErrStorage), wantErr: true},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.committer.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), shared.SourceWebhook).
				Return(tt.result, tt.commitErr)

			res, err := s.triggers.HandleWebhook(context.Background(), commands.WebhookEvent{
				Event:      commands.EventPaymentCaptured,
				PaymentID:  "pay_1",
				OrderID:    "order_1",
				OrderNotes: s.notes(),
			})
			if tt.wantErr {
				s.Require().Error(err)
				s.True(errs.Is(err, errs.ErrStorage))
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.want, res.Outcome)
		})
	}
}

func (s *PaymentTriggersTestSuite) TestWebhook_IgnoredWithoutCommit() {
	tests := []struct {
		name string
		ev   commands.WebhookEvent
		want commands.WebhookOutcome
	}{
		{name: "unrelated event", ev: commands.WebhookEvent{Event: "refund.created", PaymentID: "pay_1", OrderNotes: s.notes()}, want: commands.OutcomeIgnored},
		{name: "missing payment id", ev: commands.WebhookEvent{Event: commands.EventPaymentCaptured, OrderNotes: s.notes()}, want: commands.OutcomeIgnored},
		{name: "no payload anywhere", ev: commands.WebhookEvent{Event: commands.EventPaymentCaptured, PaymentID: "pay_1", OrderID: "order_unknown"}, want: commands.OutcomeIgnored},
		{name: "failed attempt", ev: commands.WebhookEvent{Event: commands.EventPaymentFailed, PaymentID: "pay_1", OrderID: "order_1"}, want: commands.OutcomeIgnored},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res, err := s.triggers.HandleWebhook(context.Background(), tt.ev)
			s.Require().NoError(err)
			s.Equal(tt.want, res.Outcome)
		})
	}
}

func (s *PaymentTriggersTestSuite) TestWebhook_UndecodablePayloadEscalates() {
	tests := []struct {
		name     string
		result   *commands.CommitResult
		escalErr error
		want     commands.WebhookOutcome
		wantErr  bool
	}{
		{name: "reported for reconciliation", escalErr: errs.Mark(booking.ErrMalformedPayload, errs.ErrInvalidPayload), want: commands.OutcomeEscalated},
		{name: "already booked by browser return", result: s.committed(true), want: commands.OutcomeAlreadyCommitted},
		{name: "unverified payment", escalErr: errs.ErrPaymentInvalid, want: commands.OutcomeRejected},
		{name: "storage failure asks for redelivery", escalErr: errs.Mark(errors.New("down"), errs.ErrStorage), wantErr: true},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			want := booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1"}
			s.committer.EXPECT().
				Escalate(gomock.Any(), want, shared.SourceWebhook, gomock.Any()).
				Return(tt.result, tt.escalErr)

			res, err := s.triggers.HandleWebhook(context.Background(), commands.WebhookEvent{
				Event:      commands.EventPaymentCaptured,
				PaymentID:  "pay_1",
				OrderID:    "order_1",
				OrderNotes: map[string]string{booking.NotesKey: "{not json"},
			})
			if tt.wantErr {
				s.True(errs.Is(err, errs.ErrStorage))
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.want, res.Outcome)
		})
	}
}

func (s *PaymentTriggersTestSuite) TestWebhook_RetryAfterFailedAttemptUsesCachedCheckout() {
	_, err := s.triggers.StashCheckout(context.Background(), "order_1", s.payload.BuildCompact())
	s.Require().NoError(err)

	res, err := s.triggers.HandleWebhook(context.Background(), commands.WebhookEvent{
		Event:     commands.EventPaymentFailed,
		PaymentID: "pay_declined",
		OrderID:   "order_1",
	})
	s.Require().NoError(err)
	s.Equal(commands.OutcomeIgnored, res.Outcome)

	s.committer.EXPECT().
		Commit(gomock.Any(), booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_ok"}, payloadEq(s.payload.BuildDomain()), shared.SourceWebhook).
		Return(s.committed(false), nil)

	res, err = s.triggers.HandleWebhook(context.Background(), commands.WebhookEvent{
		Event:     commands.EventPaymentCaptured,
		PaymentID: "pay_ok",
		OrderID:   "order_1",
	})
	s.Require().NoError(err)
	s.Equal(commands.OutcomeCommitted, res.Outcome)
}

// ================================================================================
// Browser return
// ================================================================================

func (s *PaymentTriggersTestSuite) TestBrowserReturn_ClientPayload() {
	ref := booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}
	want := s.committed(false)
	s.committer.EXPECT().
		Commit(gomock.Any(), ref, payloadEq(s.payload.BuildDomain()), shared.SourceBrowserReturn).
		Return(want, nil)

	res, err := s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
		Ref:        ref,
		RawPayload: s.payload.BuildCompact(),
	})
	s.Require().NoError(err)
	s.Equal(want, res)
}

func (s *PaymentTriggersTestSuite) TestBrowserReturn_FallsBackToCache() {
	_, err := s.triggers.StashCheckout(context.Background(), "order_1", s.payload.BuildCompact())
	s.Require().NoError(err)

	s.committer.EXPECT().
		Commit(gomock.Any(), gomock.Any(), payloadEq(s.payload.BuildDomain()), shared.SourceBrowserReturn).
		Return(s.committed(true), nil)

	res, err := s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
		Ref: booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
	})
	s.Require().NoError(err)
	s.True(res.AlreadyCommitted)
}

func (s *PaymentTriggersTestSuite) TestBrowserReturn_Rejections() {
	missing := []struct {
		name  string
		ref   booking.PaymentRef
		field string
	}{
		{name: "missing payment id", ref: booking.PaymentRef{OrderID: "order_1", Signature: "sig"}, field: "razorpay_payment_id"},
		{name: "missing order id", ref: booking.PaymentRef{PaymentID: "pay_1", Signature: "sig"}, field: "razorpay_order_id"},
		{name: "missing signature", ref: booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1"}, field: "razorpay_signature"},
	}
	for _, tt := range missing {
		s.Run(tt.name, func() {
			// no Commit expectation: the gateway is never consulted
			_, err := s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
				Ref:        tt.ref,
				RawPayload: s.payload.BuildCompact(),
			})
			var validation *queries.ValidationError
			s.Require().ErrorAs(err, &validation)
			s.Contains(validation.Reason, tt.field)
		})
	}

	s.Run("no payload and nothing cached", func() {
		_, err := s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
			Ref: booking.PaymentRef{OrderID: "order_missing", PaymentID: "pay_1", Signature: "sig"},
		})
		var validation *queries.ValidationError
		s.Require().ErrorAs(err, &validation)
		s.Contains(validation.Required, "booking_data")
	})

	s.Run("commit returned no ids", func() {
		s.committer.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CommitResult{}, nil)
		_, err := s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
			Ref:        booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
			RawPayload: s.payload.BuildCompact(),
		})
		s.True(errs.Is(err, errs.ErrStorage))
	})

	s.Run("unverified payment drops the cached checkout", func() {
		_, err := s.triggers.StashCheckout(context.Background(), "order_2", s.payload.BuildCompact())
		s.Require().NoError(err)
		s.committer.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrPaymentInvalid)

		_, err = s.triggers.HandleBrowserReturn(context.Background(), commands.BrowserReturn{
			Ref: booking.PaymentRef{OrderID: "order_2", PaymentID: "pay_2", Signature: "forged"},
		})
		s.True(errs.Is(err, errs.ErrPaymentInvalid))
		_, err = s.cache.Get(context.Background(), "order_2")
		s.Error(err)
	})
}

// ================================================================================
// Checkout stash
// ================================================================================

func (s *PaymentTriggersTestSuite) TestStashCheckout() {
	verbose := []byte(`{"station_ids":["PS5 Console A"],"booking_date":"2025-01-20",` +
		`"slots":[{"start_time":"14:00","end_time":"15:00"}],` +
		`"customer":{"name":"Asha","phone":"9876543210"},"pricing":{"final_price":150}}`)

	res, err := s.triggers.StashCheckout(context.Background(), "order_1", verbose)
	s.Require().NoError(err)
	s.Equal("order_1", res.OrderID)

	assembled, ok := booking.AssembleNotes(res.Notes)
	s.Require().True(ok)
	decoded, err := booking.DecodePayload([]byte(assembled))
	s.Require().NoError(err)
	s.Equal([]string{"PS5 Console A"}, decoded.StationRefs)

	cached, err := s.cache.Get(context.Background(), "order_1")
	s.Require().NoError(err)
	s.JSONEq(assembled, string(cached))

	s.Run("rejects invalid payload", func() {
		_, err := s.triggers.StashCheckout(context.Background(), "order_2", []byte(`{"booking_date":"2025-01-20"}`))
		var validation *queries.ValidationError
		s.ErrorAs(err, &validation)
	})

	s.Run("rejects missing order id", func() {
		_, err := s.triggers.StashCheckout(context.Background(), "", verbose)
		var validation *queries.ValidationError
		s.ErrorAs(err, &validation)
	})
}

func TestStashCheckout_CacheUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := commandsmock.NewMockCheckoutCache(ctrl)
	mockCache.EXPECT().Put(gomock.Any(), "order_1", gomock.Any()).Return(errors.New("redis: connection refused"))

	triggers := commands.NewPaymentTriggers(commandsmock.NewMockBookingCommitter(ctrl), mockCache, slog.New(slog.DiscardHandler))
	_, err := triggers.StashCheckout(context.Background(), "order_1", builder.NewPayloadBuilder().BuildCompact())

	if !errs.Is(err, errs.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
