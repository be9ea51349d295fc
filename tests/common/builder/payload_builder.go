//go:build unit || e2e

package builder

import (
	"lounge-booking/internal/domain/booking"

	"github.com/shopspring/decimal"
)

type PayloadBuilder struct {
	StationRefs []string
	Date        string
	Slots       [][2]string
	Duration    int
	Name        string
	Phone       string
	Email       string
	CustomerRef string
	FinalPrice  string
	Coupon      string
}

func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{
		StationRefs: []string{"PS5 Console A"},
		Date:        "2025-01-20",
		Slots:       [][2]string{{"14:00", "15:00"}},
		Name:        "Asha",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		FinalPrice:  "150",
	}
}

func (b *PayloadBuilder) With(mutate func(*PayloadBuilder)) *PayloadBuilder {
	mutate(b)
	return b
}

func (b *PayloadBuilder) BuildDomain() booking.Payload {
	slots := make([]booking.SlotTimes, 0, len(b.Slots))
	for _, s := range b.Slots {
		slots = append(slots, booking.SlotTimes{StartTime: s[0], EndTime: s[1]})
	}
	final := decimal.RequireFromString(b.FinalPrice)
	return booking.Payload{
		StationRefs:     b.StationRefs,
		Date:            b.Date,
		Slots:           slots,
		DurationMinutes: b.Duration,
		Customer: booking.CustomerInfo{
			Name:  b.Name,
			Phone: b.Phone,
			Email: b.Email,
			ID:    b.CustomerRef,
		},
		Pricing: booking.Pricing{
			OriginalPrice: final,
			FinalPrice:    final,
			TotalWithFee:  final,
		},
		CouponCode: b.Coupon,
	}
}

// BuildVerbose renders the checkout-page wire form.
func (b *PayloadBuilder) BuildVerbose() map[string]any {
	slots := make([]map[string]string, 0, len(b.Slots))
	for _, s := range b.Slots {
		slots = append(slots, map[string]string{"start_time": s[0], "end_time": s[1]})
	}
	return map[string]any{
		"station_ids":  b.StationRefs,
		"booking_date": b.Date,
		"slots":        slots,
		"customer": map[string]string{
			"name":  b.Name,
			"phone": b.Phone,
			"email": b.Email,
			"id":    b.CustomerRef,
		},
		"pricing": map[string]string{
			"original_price": b.FinalPrice,
			"final_price":    b.FinalPrice,
			"total_with_fee": b.FinalPrice,
		},
	}
}

// BuildCompact renders the short-key form stored in gateway notes.
func (b *PayloadBuilder) BuildCompact() []byte {
	raw, err := b.BuildDomain().EncodeCompact()
	if err != nil {
		panic(err)
	}
	return raw
}
