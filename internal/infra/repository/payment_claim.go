package repository

import (
	"context"
	"time"

	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"
)

type PaymentClaimRepository struct {
	db db.DBTX
}

func NewPaymentClaimRepository(db db.DBTX) *PaymentClaimRepository {
	return &PaymentClaimRepository{db: db}
}

// Claim inserts the payment's claim row. The primary key makes a second claim
// fail with DUPLICATE_KEY, blocking until the first claimant's transaction ends.
func (r *PaymentClaimRepository) Claim(ctx context.Context, paymentTxnID, orderID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_claims (payment_txn_id, order_id, created_at)
		VALUES ($1, $2, $3)`,
		paymentTxnID, pgconv.TextFromString(orderID), pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to claim payment", err)
	}
	return nil
}
