//go:build unit

package infra_test

import (
	"errors"
	"fmt"
	"testing"

	"lounge-booking/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		wantKind       infra.RepositoryErrorKind
		wantConstraint string
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantKind: infra.KindNotFound},
		{
			name:           "unique violation",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "payment_claims_pkey"},
			wantKind:       infra.KindDuplicateKey,
			wantConstraint: "payment_claims_pkey",
		},
		{
			name:           "foreign key violation",
			err:            &pgconn.PgError{Code: "23503", ConstraintName: "bookings_station_id_fkey"},
			wantKind:       infra.KindForeignKeyViolated,
			wantConstraint: "bookings_station_id_fkey",
		},
		{
			name:           "exclusion violation wrapped by caller",
			err:            fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}),
			wantKind:       infra.KindConflict,
			wantConstraint: "bookings_no_overlap",
		},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, wantKind: infra.KindDBFailure},
		{name: "plain error", err: errors.New("connection reset"), wantKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := infra.WrapRepoErr("create booking", tc.err)

			assert.True(t, infra.IsKind(err, tc.wantKind), "got %v", err)
			assert.Equal(t, tc.wantConstraint, infra.ConstraintName(err))
			assert.ErrorIs(t, err, tc.err)
			assert.Contains(t, err.Error(), "create booking")
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, infra.WrapRepoErr("noop", nil))
	})
}

func TestNewDuplicateKeyErr(t *testing.T) {
	err := fmt.Errorf("claim: %w", infra.NewDuplicateKeyErr("payment_claims_pkey", "payment already claimed"))

	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	assert.False(t, infra.IsKind(err, infra.KindConflict))
	assert.Equal(t, "payment_claims_pkey", infra.ConstraintName(err))
	assert.Empty(t, infra.ConstraintName(errors.New("other")))
}
