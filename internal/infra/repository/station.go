package repository

import (
	"context"

	"lounge-booking/internal/domain/availability"
	"lounge-booking/internal/domain/station"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type StationRepository struct {
	db db.DBTX
}

func NewStationRepository(db db.DBTX) *StationRepository {
	return &StationRepository{db: db}
}

// ListStations returns the active catalog in name order, the order name resolution walks it.
func (r *StationRepository) ListStations(ctx context.Context) ([]*station.Station, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, station_type, hourly_rate
		FROM stations
		WHERE is_active
		ORDER BY name, id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stations", err)
	}
	defer rows.Close()

	var out []*station.Station
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
			kind string
			rate pgtype.Numeric
		)
		if err := rows.Scan(&id, &name, &kind, &rate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan station", err)
		}
		hourly, err := pgconv.DecimalFromNumeric(rate)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid hourly rate", err)
		}
		s, err := station.NewStation(id, name, station.Type(kind), hourly)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid station row", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stations", err)
	}
	return out, nil
}

// OpenSessions lists sessions with no end time; the session lifecycle itself lives elsewhere.
func (r *StationRepository) OpenSessions(ctx context.Context, stationIDs []uuid.UUID) ([]availability.ActiveSession, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, station_id, start_time
		FROM sessions
		WHERE station_id = ANY($1) AND end_time IS NULL`, stationIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list open sessions", err)
	}
	defer rows.Close()

	var out []availability.ActiveSession
	for rows.Next() {
		var (
			s       availability.ActiveSession
			started pgtype.Timestamptz
		)
		if err := rows.Scan(&s.ID, &s.StationID, &started); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session", err)
		}
		s.StartedAt = pgconv.TimeFromPgtype(started)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sessions", err)
	}
	return out, nil
}
