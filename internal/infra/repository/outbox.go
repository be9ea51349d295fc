package repository

import (
	"context"
	"time"

	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"
	"lounge-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	OutboxStatusQueued    = "queued"
	OutboxStatusPublished = "published"
	OutboxStatusFailed    = "failed"
)

// OutboxRecord is a queued event as the relay sees it.
type OutboxRecord struct {
	shared.OutboxEvent
	Attempts int
}

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(db db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, ev shared.OutboxEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox_events (id, kind, topic, aggregate_id, payload, status, run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.Kind, ev.Topic, ev.AggregateID, ev.Payload, OutboxStatusQueued, pgconv.TimeToPgtype(ev.RunAt))
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

// FetchDue locks up to limit queued events whose run_at has passed. Call it inside a
// transaction; SKIP LOCKED lets several relays drain the table without double sends.
func (r *OutboxRepository) FetchDue(ctx context.Context, now time.Time, limit int) ([]OutboxRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, topic, aggregate_id, payload, run_at, attempts
		FROM outbox_events
		WHERE status = $1 AND run_at <= $2
		ORDER BY run_at, created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		OutboxStatusQueued, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch outbox events", err)
	}
	defer rows.Close()

	var out []OutboxRecord
	for rows.Next() {
		var (
			rec      OutboxRecord
			runAt    pgtype.Timestamptz
			attempts int32
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Topic, &rec.AggregateID, &rec.Payload, &runAt, &attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		rec.RunAt = pgconv.TimeFromPgtype(runAt)
		rec.Attempts = int(attempts)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events
		SET status = $2, published_at = $3, attempts = attempts + 1, last_error = NULL
		WHERE id = ANY($1)`,
		ids, OutboxStatusPublished, pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}

// MarkFailed records a failed send. The event is requeued at retryAt until
// maxAttempts is reached, after which it parks in the failed state.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string, retryAt time.Time, maxAttempts int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events
		SET attempts = attempts + 1,
		    last_error = $2,
		    run_at = $3,
		    status = CASE WHEN attempts + 1 >= $4 THEN $5 ELSE status END
		WHERE id = $1`,
		id, cause, pgconv.TimeToPgtype(retryAt), maxAttempts, OutboxStatusFailed)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
