//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Seeded catalog; names are chosen so substring refs like "ps5" hit exactly one row.
var (
	StationPS5A    = uuid.MustParse("5c1e5d0a-0000-4000-8000-000000000001")
	StationPS5B    = uuid.MustParse("5c1e5d0a-0000-4000-8000-000000000002")
	StationPool    = uuid.MustParse("5c1e5d0a-0000-4000-8000-000000000003")
	StationRetired = uuid.MustParse("5c1e5d0a-0000-4000-8000-000000000004")
)

func CreateTestStation(t *testing.T, db DBLike, name, kind, rate string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO stations (id, name, station_type, hourly_rate) VALUES ($1, $2, $3, $4)",
		id, name, kind, rate)
	require.NoError(t, err)
	return id
}

func CreateTestCustomer(t *testing.T, db DBLike, name, phone, customID string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO customers (id, name, phone, custom_id) VALUES ($1, $2, $3, $4)",
		id, name, phone, customID)
	require.NoError(t, err)
	return id
}

// OpenTestSession starts a walk-in session with no end time.
func OpenTestSession(t *testing.T, db DBLike, stationID uuid.UUID, startedAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO sessions (id, station_id, start_time) VALUES ($1, $2, $3)",
		id, stationID, startedAt)
	require.NoError(t, err)
	return id
}

func CountRows(t *testing.T, db DBLike, table, where string, args ...any) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table+" WHERE "+where, args...).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts the station catalog needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO stations (id, name, station_type, hourly_rate, is_active) VALUES
		    ($1, 'PS5 Console A', 'console', 150.00, true),
		    ($2, 'PS5 Console B', 'console', 150.00, true),
		    ($3, 'Pool Table', 'table', 200.00, true),
		    ($4, 'Retired VR Rig', 'vr', 300.00, false)
		ON CONFLICT (id) DO NOTHING;
	`, StationPS5A, StationPS5B, StationPool, StationRetired)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
