//go:build unit

package customer_test

import (
	"testing"
	"time"

	"lounge-booking/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		errIs error
	}{
		{raw: "9876543210", want: "9876543210"},
		{raw: "98765 43210", want: "9876543210"},
		{raw: "+91 98765-43210", want: "9876543210"},
		{raw: "919876543210", want: "9876543210"},
		{raw: "09876543210", want: "9876543210"},
		{raw: "(987) 654-3210", want: "9876543210"},
		{raw: "12345", errIs: customer.ErrInvalidPhone},
		{raw: "449876543210", errIs: customer.ErrInvalidPhone},
		{raw: "", errIs: customer.ErrInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := customer.NormalizePhone(tt.raw, "91")
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := customer.GenerateCode()
		require.NoError(t, err)
		assert.True(t, customer.IsCustomerCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestNewCustomer(t *testing.T) {
	phone, err := customer.NormalizePhone("9876543210", "91")
	require.NoError(t, err)
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	c, err := customer.NewCustomer(" Asha ", phone, "asha@example.com", "CUSAB12CD", now)
	require.NoError(t, err)
	assert.Equal(t, "Asha", c.Name())
	assert.True(t, c.TotalSpend().IsZero())

	recoded := c.WithCode("CUSZZ99ZZ")
	assert.Equal(t, c.ID(), recoded.ID())
	assert.Equal(t, "CUSZZ99ZZ", recoded.CustomID())
	assert.Equal(t, "CUSAB12CD", c.CustomID())

	_, err = customer.NewCustomer("", phone, "", "CUSAB12CD", now)
	assert.ErrorIs(t, err, customer.ErrEmptyName)

	_, err = customer.NewCustomer("Asha", phone, "", "cus123456", now)
	assert.ErrorIs(t, err, customer.ErrInvalidCustomID)
}
