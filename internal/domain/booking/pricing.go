package booking

import "github.com/shopspring/decimal"

// Pricing carries checkout totals for the whole payload, or one row's share after Split.
type Pricing struct {
	OriginalPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
	TransactionFee decimal.Decimal
	TotalWithFee   decimal.Decimal
}

// Split divides every field evenly across parts rows (stations × slots), rounded to paise.
func (p Pricing) Split(parts int) Pricing {
	if parts <= 1 {
		return p
	}
	n := decimal.NewFromInt(int64(parts))
	return Pricing{
		OriginalPrice:  p.OriginalPrice.DivRound(n, 2),
		DiscountAmount: p.DiscountAmount.DivRound(n, 2),
		FinalPrice:     p.FinalPrice.DivRound(n, 2),
		TransactionFee: p.TransactionFee.DivRound(n, 2),
		TotalWithFee:   p.TotalWithFee.DivRound(n, 2),
	}
}

func (p Pricing) IsNegative() bool {
	return p.OriginalPrice.IsNegative() ||
		p.DiscountAmount.IsNegative() ||
		p.FinalPrice.IsNegative() ||
		p.TransactionFee.IsNegative() ||
		p.TotalWithFee.IsNegative()
}
