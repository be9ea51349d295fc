package repository

import (
	"context"
	"time"

	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/slotblock"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotBlockRepository struct {
	db db.DBTX
}

func NewSlotBlockRepository(db db.DBTX) *SlotBlockRepository {
	return &SlotBlockRepository{db: db}
}

func (r *SlotBlockRepository) CreateMany(ctx context.Context, blocks []*slotblock.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, b := range blocks {
		date, err := pgconv.DateToPgtype(b.Slot().Date())
		if err != nil {
			return infra.WrapRepoErr("invalid block date", err)
		}
		batch.Queue(`
			INSERT INTO slot_blocks (id, station_id, booking_date, start_time, end_time, expires_at, is_confirmed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID(), b.StationID(), date, b.Slot().StartTime(), b.Slot().EndTime(),
			pgconv.TimeToPgtype(b.ExpiresAt()), b.IsConfirmed(), pgconv.TimeToPgtype(b.CreatedAt()),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	for range blocks {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return infra.WrapRepoErr("failed to create slot block", err)
		}
	}
	if err := results.Close(); err != nil {
		return infra.WrapRepoErr("failed to create slot blocks", err)
	}
	return nil
}

// ActiveBlocksOn lists unconfirmed blocks on date that have not expired at now.
func (r *SlotBlockRepository) ActiveBlocksOn(
	ctx context.Context,
	stationIDs []uuid.UUID,
	date string,
	now time.Time,
) ([]*slotblock.Block, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	pgDate, err := pgconv.DateToPgtype(date)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid block date", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, station_id, booking_date, start_time, end_time, expires_at, is_confirmed, created_at
		FROM slot_blocks
		WHERE station_id = ANY($1) AND booking_date = $2
		  AND NOT is_confirmed AND expires_at > $3`,
		stationIDs, pgDate, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slot blocks", err)
	}
	defer rows.Close()

	var out []*slotblock.Block
	for rows.Next() {
		var (
			id, stationID        uuid.UUID
			d                    pgtype.Date
			start, end           string
			expiresAt, createdAt pgtype.Timestamptz
			confirmed            bool
		)
		if err := rows.Scan(&id, &stationID, &d, &start, &end, &expiresAt, &confirmed, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot block", err)
		}
		s, ok := slot.FromStored(pgconv.DateFromPgtype(d), start, end)
		if !ok {
			continue
		}
		out = append(out, slotblock.ReconstructBlock(
			id, stationID, s,
			pgconv.TimeFromPgtype(expiresAt), confirmed, pgconv.TimeFromPgtype(createdAt),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot blocks", err)
	}
	return out, nil
}

// Confirm marks active blocks with exactly this interval as confirmed.
func (r *SlotBlockRepository) Confirm(ctx context.Context, stationIDs []uuid.UUID, s slot.Slot, now time.Time) (int64, error) {
	if len(stationIDs) == 0 {
		return 0, nil
	}
	pgDate, err := pgconv.DateToPgtype(s.Date())
	if err != nil {
		return 0, infra.WrapRepoErr("invalid block date", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE slot_blocks SET is_confirmed = TRUE
		WHERE station_id = ANY($1) AND booking_date = $2 AND start_time = $3 AND end_time = $4
		  AND NOT is_confirmed AND expires_at > $5`,
		stationIDs, pgDate, s.StartTime(), s.EndTime(), pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to confirm slot blocks", err)
	}
	return tag.RowsAffected(), nil
}

// Release deletes unconfirmed blocks; confirmed ones are kept as history.
func (r *SlotBlockRepository) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM slot_blocks WHERE id = ANY($1) AND NOT is_confirmed`, ids)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to release slot blocks", err)
	}
	return tag.RowsAffected(), nil
}
