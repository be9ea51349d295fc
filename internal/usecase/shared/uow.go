package shared

import (
	"context"
	"time"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/customer"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for checks outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	PaymentClaims() PaymentClaimRepository
	Bookings() BookingRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

type CommandReads interface {
	// BookingIDsByPayment is the idempotency probe: rows already written for a payment.
	BookingIDsByPayment(ctx context.Context, paymentTxnID string) ([]uuid.UUID, error)
}

// PaymentClaimRepository guards "one set of rows per payment". Claim returns a
// DUPLICATE_KEY repository error when the payment was already claimed.
type PaymentClaimRepository interface {
	Claim(ctx context.Context, paymentTxnID, orderID string, at time.Time) error
}

type BookingRepository interface {
	CreateMany(ctx context.Context, rows []*booking.Booking) ([]uuid.UUID, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, ev OutboxEvent) error
}

// CustomerRepository works outside the booking transaction; a lost create race
// surfaces as DUPLICATE_KEY on the phone constraint and is recovered by re-query.
type CustomerRepository interface {
	FindByPhone(ctx context.Context, phone customer.Phone) (*customer.Customer, error)
	FindByRef(ctx context.Context, ref string) (*customer.Customer, error)
	Create(ctx context.Context, c *customer.Customer) error
	RecordVisit(ctx context.Context, id uuid.UUID, spend booking.Pricing) error
}
