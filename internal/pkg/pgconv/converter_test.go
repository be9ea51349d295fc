//go:build unit

package pgconv_test

import (
	"testing"

	"lounge-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "92.13", "-4.5", "1234567.89"} {
		d := decimal.RequireFromString(s)
		got, err := pgconv.DecimalFromNumeric(pgconv.DecimalToNumeric(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(got), "%s != %s", d, got)
	}

	got, err := pgconv.DecimalFromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = pgconv.DecimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
}

func TestDateConversion(t *testing.T) {
	d, err := pgconv.DateToPgtype("2025-01-20")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-20", pgconv.DateFromPgtype(d))

	_, err = pgconv.DateToPgtype("20/01/2025")
	assert.Error(t, err)
}

func TestTextFromString(t *testing.T) {
	assert.False(t, pgconv.TextFromString("").Valid)
	assert.Equal(t, "x", pgconv.StringFromPgtype(pgconv.TextFromString("x")))
}
