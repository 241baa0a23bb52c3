package outfmt

import "github.com/shopspring/decimal"

// Money renders an amount with two fraction digits without float drift.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// SumMoney adds amounts exactly and renders the total like Money.
func SumMoney(values ...float64) string {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.StringFixed(2)
}
