package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"lounge-booking/internal/domain/availability"
	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/customer"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/pkg/clock"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	maxCustomerCodeAttempts = 3
	defaultCustomerName     = "Guest"
)

var errClaimLost = errs.New("payment already claimed by a concurrent commit")

// PaymentVerifier is the opaque gateway check. Any error counts as "not paid".
type PaymentVerifier interface {
	Verify(ctx context.Context, ref booking.PaymentRef) (bool, error)
}

type CommitResult struct {
	BookingIDs       []uuid.UUID
	AlreadyCommitted bool
	CustomerID       uuid.UUID
}

type BookingCommitter interface {
	Commit(ctx context.Context, ref booking.PaymentRef, payload booking.Payload, source shared.TriggerSource) (*CommitResult, error)
	// Escalate reports a paid payment whose booking payload could not be read.
	// It returns the existing commit instead when the payment was already booked.
	Escalate(ctx context.Context, ref booking.PaymentRef, source shared.TriggerSource, cause error) (*CommitResult, error)
}

type bookingCommitUseCaseImpl struct {
	uow          shared.UnitOfWork
	customers    shared.CustomerRepository
	availability queries.AvailabilityQueries
	slotBlocks   SlotBlockCommands
	verifier     PaymentVerifier
	clock        clock.Clock
	bookingCfg   config.BookingConfig
	paymentCfg   config.PaymentConfig
	logger       *slog.Logger
}

func NewBookingCommitUseCase(
	uow shared.UnitOfWork,
	customers shared.CustomerRepository,
	availability queries.AvailabilityQueries,
	slotBlocks SlotBlockCommands,
	verifier PaymentVerifier,
	clock clock.Clock,
	bookingCfg config.BookingConfig,
	paymentCfg config.PaymentConfig,
	logger *slog.Logger,
) BookingCommitter {
	return &bookingCommitUseCaseImpl{
		uow:          uow,
		customers:    customers,
		availability: availability,
		slotBlocks:   slotBlocks,
		verifier:     verifier,
		clock:        clock,
		bookingCfg:   bookingCfg,
		paymentCfg:   paymentCfg,
		logger:       logger,
	}
}

// Commit creates the booking rows for a verified payment exactly once. It is safe to
// call concurrently and repeatedly for the same payment: every path ends either in the
// rows this call inserted or in the rows another call already committed.
func (u *bookingCommitUseCaseImpl) Commit(
	ctx context.Context,
	ref booking.PaymentRef,
	payload booking.Payload,
	source shared.TriggerSource,
) (*CommitResult, error) {
	log := u.logger.With(
		slog.String("payment_id", ref.PaymentID),
		slog.String("order_id", ref.OrderID),
		slog.String("source", string(source)),
	)

	if err := ref.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentInvalid)
	}

	// VerifyingPayment
	if err := u.verifyPayment(ctx, ref); err != nil {
		log.Warn("payment verification failed", slog.String("error", err.Error()))
		return nil, err
	}

	if res, err := u.existingCommit(ctx, ref); err != nil || res != nil {
		return res, err
	}

	if err := payload.Validate(); err != nil {
		u.escalate(ctx, log, ref, source, "invalid_payload", err)
		return nil, errs.Mark(err, errs.ErrInvalidPayload)
	}
	slots, _ := payload.SlotValues()
	if err := ensureDisjoint(slots); err != nil {
		u.escalate(ctx, log, ref, source, "invalid_payload", err)
		return nil, err
	}

	stations, err := u.availability.ResolveStations(ctx, payload.StationRefs)
	if err != nil {
		if errs.Is(err, errs.ErrStorage) {
			return nil, err
		}
		u.escalate(ctx, log, ref, source, "unknown_station", err)
		return nil, errs.Mark(err, errs.ErrInvalidPayload)
	}
	stationIDs := make([]uuid.UUID, 0, len(stations))
	for _, s := range stations {
		stationIDs = append(stationIDs, s.ID())
	}

	// ResolvingCustomer
	cust, err := u.resolveCustomer(ctx, log, payload.Customer)
	if err != nil {
		if errs.Is(err, errs.ErrInvalidPayload) {
			u.escalate(ctx, log, ref, source, "invalid_customer", err)
		}
		return nil, err
	}

	if res, err := u.existingCommit(ctx, ref); err != nil || res != nil {
		return res, err
	}

	// CheckingConflict: holds never block their own confirmation and rows already
	// written for this payment are not a competitor.
	conflict, err := u.availability.FindConflict(ctx, stationIDs, slots, availability.Options{
		IgnoreSlotBlocks:    true,
		ExcludePaymentTxnID: ref.PaymentID,
	})
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		if res, err := u.existingCommit(ctx, ref); err != nil || res != nil {
			return res, err
		}
		slotErr := errs.Mark(errs.Newf("slot %s on station %s: %s", conflict.Slot.Key(), conflict.StationID, conflict.Reason), errs.ErrSlotNoLongerAvailable)
		u.escalate(ctx, log, ref, source, "slot_no_longer_available", slotErr)
		return nil, slotErr
	}

	// Inserting
	rows := booking.BuildRows(stationIDs, slots, payload, cust.ID(), ref, u.clock.Now())
	ids, already, err := u.insert(ctx, ref, rows, payload)
	if err != nil {
		if errs.Is(err, errs.ErrSlotNoLongerAvailable) {
			u.escalate(ctx, log, ref, source, "slot_no_longer_available", err)
		}
		return nil, err
	}
	if already {
		log.Info("booking already committed by concurrent trigger", slog.Int("rows", len(ids)))
		return &CommitResult{BookingIDs: ids, AlreadyCommitted: true, CustomerID: cust.ID()}, nil
	}

	// ConfirmingBlocks
	for _, s := range slots {
		if n, err := u.slotBlocks.ConfirmBlocks(ctx, stationIDs, s); err != nil {
			log.Warn("failed to confirm slot blocks", slog.String("slot", s.Key()), slog.String("error", err.Error()))
		} else {
			log.Debug("slot blocks confirmed", slog.String("slot", s.Key()), slog.Int64("count", n))
		}
	}

	u.recordVisit(ctx, log, cust.ID(), payload.Pricing)

	log.Info("booking committed",
		slog.Int("rows", len(ids)),
		slog.String("customer_id", cust.ID().String()))

	return &CommitResult{BookingIDs: ids, CustomerID: cust.ID()}, nil
}

func (u *bookingCommitUseCaseImpl) Escalate(
	ctx context.Context,
	ref booking.PaymentRef,
	source shared.TriggerSource,
	cause error,
) (*CommitResult, error) {
	log := u.logger.With(
		slog.String("payment_id", ref.PaymentID),
		slog.String("order_id", ref.OrderID),
		slog.String("source", string(source)),
	)

	if err := ref.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentInvalid)
	}
	if err := u.verifyPayment(ctx, ref); err != nil {
		log.Warn("payment verification failed", slog.String("error", err.Error()))
		return nil, err
	}
	if res, err := u.existingCommit(ctx, ref); err != nil || res != nil {
		return res, err
	}

	u.escalate(ctx, log, ref, source, "invalid_payload", cause)
	return nil, errs.Mark(cause, errs.ErrInvalidPayload)
}

func (u *bookingCommitUseCaseImpl) verifyPayment(ctx context.Context, ref booking.PaymentRef) error {
	vctx, cancel := u.withTimeout(ctx, u.paymentCfg.VerifyTimeout)
	defer cancel()

	ok, err := u.verifier.Verify(vctx, ref)
	if err != nil {
		return errs.Mark(err, errs.ErrPaymentInvalid)
	}
	if !ok {
		return errs.ErrPaymentInvalid
	}
	return nil
}

// existingCommit is the idempotency probe. A non-nil result short-circuits the commit.
func (u *bookingCommitUseCaseImpl) existingCommit(ctx context.Context, ref booking.PaymentRef) (*CommitResult, error) {
	sctx, cancel := u.storeCtx(ctx)
	defer cancel()

	ids, err := u.uow.CommandReads().BookingIDsByPayment(sctx, ref.PaymentID)
	if err != nil {
		return nil, errs.Storage(err, "probe existing commit")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &CommitResult{BookingIDs: ids, AlreadyCommitted: true}, nil
}

func (u *bookingCommitUseCaseImpl) resolveCustomer(
	ctx context.Context,
	log *slog.Logger,
	info booking.CustomerInfo,
) (*customer.Customer, error) {
	sctx, cancel := u.storeCtx(ctx)
	defer cancel()

	if info.Phone == "" {
		c, err := u.customers.FindByRef(sctx, info.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(errs.Newf("unknown customer %s", info.ID), errs.ErrInvalidPayload)
			}
			return nil, errs.Storage(err, "find customer by ref")
		}
		return c, nil
	}

	phone, err := customer.NormalizePhone(info.Phone, u.bookingCfg.PhoneCountryCode)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPayload)
	}

	found, err := u.customers.FindByPhone(sctx, phone)
	if err == nil {
		return found, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Storage(err, "find customer by phone")
	}

	name := info.Name
	if name == "" {
		name = defaultCustomerName
	}

	for attempt := 0; attempt < maxCustomerCodeAttempts; attempt++ {
		code, err := customer.GenerateCode()
		if err != nil {
			return nil, errs.Mark(err, errs.ErrStorage)
		}
		candidate, err := customer.NewCustomer(name, phone, info.Email, code, u.clock.Now())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidPayload)
		}

		err = u.customers.Create(sctx, candidate)
		if err == nil {
			log.Info("customer created", slog.String("customer_id", candidate.ID().String()), slog.String("custom_id", code))
			return candidate, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errs.ErrStorage)
		}

		// Either the other trigger created this phone first, or the code collided.
		winner, findErr := u.customers.FindByPhone(sctx, phone)
		if findErr == nil {
			log.Info("adopted concurrently created customer",
				slog.String("customer_id", winner.ID().String()),
				slog.String("constraint", infra.ConstraintName(err)))
			return winner, nil
		}
		if !infra.IsKind(findErr, infra.KindNotFound) {
			return nil, errs.Mark(findErr, errs.ErrStorage)
		}
		log.Debug("customer code collision, regenerating", slog.Int("attempt", attempt+1))
	}

	return nil, errs.Mark(errs.ErrCustomerCreateConflict, errs.ErrStorage)
}

// insert re-checks idempotency, claims the payment and writes every row in one
// transaction. already=true means a concurrent commit owns the payment.
func (u *bookingCommitUseCaseImpl) insert(
	ctx context.Context,
	ref booking.PaymentRef,
	rows []*booking.Booking,
	payload booking.Payload,
) ([]uuid.UUID, bool, error) {
	sctx, cancel := u.storeCtx(ctx)
	defer cancel()

	var (
		ids     []uuid.UUID
		already bool
	)
	err := u.uow.Within(sctx, func(ctx context.Context, tx shared.Tx) error {
		ids, already = nil, false

		existing, err := tx.Reads().BookingIDsByPayment(ctx, ref.PaymentID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			ids, already = existing, true
			return nil
		}

		if err := tx.PaymentClaims().Claim(ctx, ref.PaymentID, ref.OrderID, u.clock.Now()); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errClaimLost
			}
			return err
		}

		created, err := tx.Bookings().CreateMany(ctx, rows)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrSlotNoLongerAvailable)
			}
			return err
		}

		event, err := confirmedEvent(ref, created, payload, u.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Outbox().Enqueue(ctx, event); err != nil {
			return err
		}

		ids = created
		return nil
	})

	switch {
	case err == nil:
		return ids, already, nil
	case errs.Is(err, errClaimLost):
		// the claim winner has committed; its rows are visible now
		res, rerr := u.existingCommit(ctx, ref)
		if rerr != nil {
			return nil, false, rerr
		}
		if res == nil {
			return nil, false, errs.Storage(errs.New("no booking rows visible"), "claimed payment")
		}
		return res.BookingIDs, true, nil
	case errs.Is(err, errs.ErrSlotNoLongerAvailable):
		return nil, false, err
	default:
		return nil, false, errs.Storage(err, "insert bookings")
	}
}

func (u *bookingCommitUseCaseImpl) recordVisit(ctx context.Context, log *slog.Logger, customerID uuid.UUID, pricing booking.Pricing) {
	sctx, cancel := u.storeCtx(ctx)
	defer cancel()

	if err := u.customers.RecordVisit(sctx, customerID, pricing); err != nil {
		log.Warn("failed to update customer aggregates", slog.String("error", err.Error()))
	}
}

// escalate surfaces a captured payment without a booking to operators. It logs at
// error level and writes a reconciliation event; neither failure changes the outcome.
func (u *bookingCommitUseCaseImpl) escalate(
	ctx context.Context,
	log *slog.Logger,
	ref booking.PaymentRef,
	source shared.TriggerSource,
	reason string,
	cause error,
) {
	log.Error("payment captured without booking, reconciliation required",
		slog.String("reason", reason),
		slog.String("error", cause.Error()))

	body, err := json.Marshal(map[string]any{
		"payment_id": ref.PaymentID,
		"order_id":   ref.OrderID,
		"source":     source,
		"reason":     reason,
		"detail":     cause.Error(),
	})
	if err != nil {
		log.Error("failed to encode reconciliation event", slog.String("error", err.Error()))
		return
	}

	sctx, cancel := u.storeCtx(ctx)
	defer cancel()

	err = u.uow.Within(sctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Outbox().Enqueue(ctx, shared.OutboxEvent{
			ID:          uuid.New(),
			Kind:        shared.OutboxKindBooking,
			Topic:       shared.TopicReconciliationNeeded,
			AggregateID: ref.PaymentID,
			Payload:     body,
			RunAt:       u.clock.Now(),
		})
	})
	if err != nil {
		log.Error("failed to enqueue reconciliation event", slog.String("error", err.Error()))
	}
}

func (u *bookingCommitUseCaseImpl) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return u.withTimeout(ctx, u.bookingCfg.StoreTimeout)
}

func (u *bookingCommitUseCaseImpl) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func confirmedEvent(ref booking.PaymentRef, ids []uuid.UUID, payload booking.Payload, now time.Time) (shared.OutboxEvent, error) {
	body, err := json.Marshal(map[string]any{
		"payment_id":   ref.PaymentID,
		"order_id":     ref.OrderID,
		"booking_ids":  ids,
		"booking_date": payload.Date,
		"final_price":  payload.Pricing.FinalPrice,
	})
	if err != nil {
		return shared.OutboxEvent{}, err
	}
	return shared.OutboxEvent{
		ID:          uuid.New(),
		Kind:        shared.OutboxKindBooking,
		Topic:       shared.TopicBookingConfirmed,
		AggregateID: ref.PaymentID,
		Payload:     body,
		RunAt:       now,
	}, nil
}

// ensureDisjoint rejects payloads whose own slots overlap; each (station, slot)
// row must claim a distinct interval.
func ensureDisjoint(slots []slot.Slot) error {
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Overlaps(slots[j]) {
				return errs.Mark(errs.Newf("payload slots %s and %s overlap", slots[i].Key(), slots[j].Key()), errs.ErrInvalidPayload)
			}
		}
	}
	return nil
}
