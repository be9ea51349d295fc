package commands

import (
	"context"
	"log/slog"
	"strings"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/queries"
	"lounge-booking/internal/usecase/shared"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventOrderPaid       = "order.paid"
	EventPaymentFailed   = "payment.failed"
)

type WebhookOutcome string

const (
	OutcomeCommitted        WebhookOutcome = "committed"
	OutcomeAlreadyCommitted WebhookOutcome = "already_committed"
	OutcomeIgnored          WebhookOutcome = "ignored"
	OutcomeRejected         WebhookOutcome = "rejected"
	OutcomeEscalated        WebhookOutcome = "escalated"
)

// WebhookEvent is the gateway notification reduced to what the triggers need.
type WebhookEvent struct {
	Event        string
	PaymentID    string
	OrderID      string
	OrderNotes   map[string]string
	PaymentNotes map[string]string
}

type WebhookResult struct {
	Outcome WebhookOutcome
	Commit  *CommitResult
}

type BrowserReturn struct {
	Ref booking.PaymentRef
	// RawPayload is the client-held checkout copy; empty falls back to the server cache.
	RawPayload []byte
}

type StashResult struct {
	OrderID string
	// Notes is the gateway order metadata carrying the compact payload.
	Notes map[string]string
}

// CheckoutCache keeps a server-side copy of checkout payloads keyed by gateway order id.
// Get reports a NOT_FOUND repository error for unknown or expired orders.
type CheckoutCache interface {
	Put(ctx context.Context, orderID string, raw []byte) error
	Get(ctx context.Context, orderID string) ([]byte, error)
	Delete(ctx context.Context, orderID string) error
}

// PaymentTriggers routes both entry points into the committer. It adds no locking;
// correctness rests entirely on the committer's idempotency.
type PaymentTriggers interface {
	HandleWebhook(ctx context.Context, ev WebhookEvent) (*WebhookResult, error)
	HandleBrowserReturn(ctx context.Context, in BrowserReturn) (*CommitResult, error)
	StashCheckout(ctx context.Context, orderID string, raw []byte) (*StashResult, error)
}

type paymentTriggersImpl struct {
	committer BookingCommitter
	cache     CheckoutCache
	logger    *slog.Logger
}

func NewPaymentTriggers(committer BookingCommitter, cache CheckoutCache, logger *slog.Logger) PaymentTriggers {
	return &paymentTriggersImpl{
		committer: committer,
		cache:     cache,
		logger:    logger,
	}
}

func (t *paymentTriggersImpl) HandleWebhook(ctx context.Context, ev WebhookEvent) (*WebhookResult, error) {
	log := t.logger.With(
		slog.String("event", ev.Event),
		slog.String("payment_id", ev.PaymentID),
		slog.String("order_id", ev.OrderID),
	)

	switch ev.Event {
	case EventPaymentCaptured, EventOrderPaid:
	case EventPaymentFailed:
		// the order stays payable; a later attempt still needs the cached checkout
		log.Info("payment attempt failed")
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	default:
		log.Debug("webhook event ignored")
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}

	if ev.PaymentID == "" {
		log.Warn("webhook without payment id ignored")
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}

	raw, err := t.webhookPayload(ctx, ev)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		log.Error("paid webhook carries no booking payload; relying on browser return")
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}

	// no signature: the verifier fetches the payment from the gateway instead
	ref := booking.PaymentRef{OrderID: ev.OrderID, PaymentID: ev.PaymentID}

	payload, err := booking.DecodePayload(raw)
	if err != nil {
		res, err := t.committer.Escalate(ctx, ref, shared.SourceWebhook, err)
		return webhookResult(res, err)
	}

	res, err := t.committer.Commit(ctx, ref, payload, shared.SourceWebhook)
	return webhookResult(res, err)
}

// webhookResult maps a committer result onto the outcome reported to the gateway.
func webhookResult(res *CommitResult, err error) (*WebhookResult, error) {
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrPaymentInvalid):
			return &WebhookResult{Outcome: OutcomeRejected}, nil
		case errs.Is(err, errs.ErrSlotNoLongerAvailable), errs.Is(err, errs.ErrInvalidPayload):
			// terminal; gateway redelivery cannot help
			return &WebhookResult{Outcome: OutcomeEscalated}, nil
		default:
			return nil, err
		}
	}

	outcome := OutcomeCommitted
	if res.AlreadyCommitted {
		outcome = OutcomeAlreadyCommitted
	}
	return &WebhookResult{Outcome: outcome, Commit: res}, nil
}

func (t *paymentTriggersImpl) HandleBrowserReturn(ctx context.Context, in BrowserReturn) (*CommitResult, error) {
	log := t.logger.With(
		slog.String("payment_id", in.Ref.PaymentID),
		slog.String("order_id", in.Ref.OrderID),
	)

	if missing := missingReturnFields(in.Ref); len(missing) > 0 {
		return nil, &queries.ValidationError{
			Reason:   "missing " + strings.Join(missing, ", "),
			Required: []string{"razorpay_payment_id", "razorpay_order_id", "razorpay_signature"},
			Received: map[string]any{
				"razorpay_payment_id": in.Ref.PaymentID,
				"razorpay_order_id":   in.Ref.OrderID,
				"razorpay_signature":  in.Ref.Signature != "",
			},
		}
	}

	raw := in.RawPayload
	if len(raw) == 0 {
		cached, err := t.cachedPayload(ctx, in.Ref.OrderID)
		if err != nil {
			return nil, err
		}
		raw = cached
	}
	if len(raw) == 0 {
		return nil, &queries.ValidationError{
			Reason:   "booking payload unavailable for order",
			Required: []string{"booking_data"},
			Received: map[string]any{"razorpay_order_id": in.Ref.OrderID},
		}
	}

	payload, err := booking.DecodePayload(raw)
	if err != nil {
		return nil, &queries.ValidationError{
			Reason:   err.Error(),
			Required: []string{"booking_data"},
			Received: map[string]any{"razorpay_order_id": in.Ref.OrderID},
		}
	}

	res, err := t.committer.Commit(ctx, in.Ref, payload, shared.SourceBrowserReturn)
	if err != nil {
		if errs.Is(err, errs.ErrPaymentInvalid) {
			t.discardCheckout(ctx, log, in.Ref.OrderID)
		}
		return nil, err
	}
	if len(res.BookingIDs) == 0 {
		// never report success without a booking id
		return nil, errs.Mark(errs.New("commit returned no booking ids"), errs.ErrStorage)
	}
	return res, nil
}

// missingReturnFields lists the checkout response fields the browser must echo back.
// The signature binds the payment to the order, so neither may be absent.
func missingReturnFields(ref booking.PaymentRef) []string {
	var missing []string
	if ref.PaymentID == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if ref.OrderID == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if ref.Signature == "" {
		missing = append(missing, "razorpay_signature")
	}
	return missing
}

func (t *paymentTriggersImpl) StashCheckout(ctx context.Context, orderID string, raw []byte) (*StashResult, error) {
	if orderID == "" {
		return nil, &queries.ValidationError{
			Reason:   "order_id is required",
			Required: []string{"order_id", "booking_data"},
			Received: map[string]any{"order_id": orderID},
		}
	}
	payload, err := booking.DecodePayload(raw)
	if err == nil {
		err = payload.Validate()
	}
	if err != nil {
		return nil, &queries.ValidationError{
			Reason:   err.Error(),
			Required: []string{"order_id", "booking_data"},
			Received: map[string]any{"order_id": orderID},
		}
	}

	compact, err := payload.EncodeCompact()
	if err != nil {
		return nil, errs.Wrap(err, "encode compact payload")
	}
	if err := t.cache.Put(ctx, orderID, compact); err != nil {
		return nil, errs.Mark(err, errs.ErrStorage)
	}

	return &StashResult{
		OrderID: orderID,
		Notes:   booking.SplitNotes(string(compact), booking.NotesChunkSize),
	}, nil
}

// webhookPayload prefers order notes, then payment notes, then the checkout cache.
func (t *paymentTriggersImpl) webhookPayload(ctx context.Context, ev WebhookEvent) ([]byte, error) {
	if data, ok := booking.AssembleNotes(ev.OrderNotes); ok {
		return []byte(data), nil
	}
	if data, ok := booking.AssembleNotes(ev.PaymentNotes); ok {
		return []byte(data), nil
	}
	return t.cachedPayload(ctx, ev.OrderID)
}

func (t *paymentTriggersImpl) cachedPayload(ctx context.Context, orderID string) ([]byte, error) {
	if orderID == "" {
		return nil, nil
	}
	raw, err := t.cache.Get(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, errs.ErrStorage)
	}
	return raw, nil
}

func (t *paymentTriggersImpl) discardCheckout(ctx context.Context, log *slog.Logger, orderID string) {
	if orderID == "" {
		return
	}
	if err := t.cache.Delete(ctx, orderID); err != nil {
		log.Warn("failed to discard cached checkout", slog.String("error", err.Error()))
	}
}
