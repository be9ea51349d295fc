package repository

import (
	"context"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertBookingSQL = `
	INSERT INTO bookings (
		id, station_id, customer_id, booking_date, start_time, end_time, duration, status,
		original_price, discount_amount, final_price, transaction_fee, total_with_fee,
		coupon_code, payment_mode, payment_txn_id, notes, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateMany inserts all rows in one round trip. Any row failing fails the batch,
// and the surrounding transaction discards the rest.
func (r *BookingRepository) CreateMany(ctx context.Context, rows []*booking.Booking) ([]uuid.UUID, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, b := range rows {
		date, err := pgconv.DateToPgtype(b.Slot().Date())
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking date", err)
		}
		p := b.Pricing()
		batch.Queue(insertBookingSQL,
			b.ID(), b.StationID(), b.CustomerID(), date, b.Slot().StartTime(), b.Slot().EndTime(),
			b.DurationMinutes(), string(b.Status()),
			pgconv.DecimalToNumeric(p.OriginalPrice),
			pgconv.DecimalToNumeric(p.DiscountAmount),
			pgconv.DecimalToNumeric(p.FinalPrice),
			pgconv.DecimalToNumeric(p.TransactionFee),
			pgconv.DecimalToNumeric(p.TotalWithFee),
			pgconv.TextFromString(b.CouponCode()),
			pgconv.TextFromString(string(b.PaymentMode())),
			pgconv.TextFromString(b.PaymentTxnID()),
			pgconv.TextFromString(b.Notes()),
			pgconv.TimeToPgtype(b.CreatedAt()),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	ids := make([]uuid.UUID, 0, len(rows))
	for range rows {
		var id uuid.UUID
		if err := results.QueryRow().Scan(&id); err != nil {
			_ = results.Close()
			return nil, infra.WrapRepoErr("failed to create booking", err)
		}
		ids = append(ids, id)
	}
	if err := results.Close(); err != nil {
		return nil, infra.WrapRepoErr("failed to create bookings", err)
	}
	return ids, nil
}

func (r *BookingRepository) IDsByPayment(ctx context.Context, paymentTxnID string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM bookings
		WHERE payment_txn_id = $1
		ORDER BY created_at, id`, paymentTxnID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by payment", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking ids", err)
	}
	return ids, nil
}

// BookingsOn returns rows on the given date and stations whose status is in statuses.
// Rows whose stored times do not parse are skipped: they cannot be compared.
func (r *BookingRepository) BookingsOn(
	ctx context.Context,
	stationIDs []uuid.UUID,
	date string,
	statuses []booking.Status,
) ([]*booking.Booking, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	pgDate, err := pgconv.DateToPgtype(date)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking date", err)
	}
	statusText := make([]string, len(statuses))
	for i, s := range statuses {
		statusText[i] = string(s)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, station_id, customer_id, booking_date, start_time, end_time, duration, status,
		       original_price, discount_amount, final_price, transaction_fee, total_with_fee,
		       coupon_code, payment_mode, payment_txn_id, notes, created_at
		FROM bookings
		WHERE station_id = ANY($1) AND booking_date = $2 AND status = ANY($3::text[])`,
		stationIDs, pgDate, statusText)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, ok, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, bool, error) {
	var (
		id, stationID, customerID     uuid.UUID
		date                          pgtype.Date
		start, end                    string
		duration                      int32
		status                        string
		orig, disc, final, fee, total pgtype.Numeric
		coupon, mode, txnID, notes    pgtype.Text
		createdAt                     pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &stationID, &customerID, &date, &start, &end, &duration, &status,
		&orig, &disc, &final, &fee, &total,
		&coupon, &mode, &txnID, &notes, &createdAt,
	); err != nil {
		return nil, false, infra.WrapRepoErr("failed to scan booking", err)
	}

	s, ok := slot.FromStored(pgconv.DateFromPgtype(date), start, end)
	if !ok {
		return nil, false, nil
	}

	var (
		pricing booking.Pricing
		err     error
	)
	if pricing.OriginalPrice, err = pgconv.DecimalFromNumeric(orig); err != nil {
		return nil, false, infra.WrapRepoErr("invalid original price", err)
	}
	if pricing.DiscountAmount, err = pgconv.DecimalFromNumeric(disc); err != nil {
		return nil, false, infra.WrapRepoErr("invalid discount amount", err)
	}
	if pricing.FinalPrice, err = pgconv.DecimalFromNumeric(final); err != nil {
		return nil, false, infra.WrapRepoErr("invalid final price", err)
	}
	if pricing.TransactionFee, err = pgconv.DecimalFromNumeric(fee); err != nil {
		return nil, false, infra.WrapRepoErr("invalid transaction fee", err)
	}
	if pricing.TotalWithFee, err = pgconv.DecimalFromNumeric(total); err != nil {
		return nil, false, infra.WrapRepoErr("invalid total", err)
	}

	b, err := booking.ReconstructBooking(id, booking.NewBookingParams{
		StationID:       stationID,
		CustomerID:      customerID,
		Slot:            s,
		DurationMinutes: int(duration),
		Pricing:         pricing,
		CouponCode:      pgconv.StringFromPgtype(coupon),
		PaymentMode:     booking.PaymentMode(pgconv.StringFromPgtype(mode)),
		PaymentTxnID:    pgconv.StringFromPgtype(txnID),
		Notes:           pgconv.StringFromPgtype(notes),
	}, booking.Status(status), pgconv.TimeFromPgtype(createdAt))
	if err != nil {
		return nil, false, infra.WrapRepoErr("invalid booking row", err)
	}
	return b, true, nil
}
