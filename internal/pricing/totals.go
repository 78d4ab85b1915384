// Package pricing derives cart totals. Amounts are computed at full
// decimal precision and rounded only when formatted.
package pricing

import (
	"encoding/json"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// DiscountThreshold is the subtotal a cart must exceed to earn the discount.
	DiscountThreshold = decimal.NewFromInt(3000)

	// DiscountRate applies to the whole subtotal once the threshold is passed.
	DiscountRate = decimal.NewFromFloat(0.10)

	// ShippingFlat is charged on every cart, including an empty one.
	ShippingFlat = decimal.NewFromInt(30)
)

// Totals is the derived price summary of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal is price × quantity for one line.
func LineTotal(line domain.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Subtotal sums line totals.
func Subtotal(cart domain.Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range cart {
		sum = sum.Add(LineTotal(line))
	}
	return sum
}

// ComputeTotals applies the discount rule and flat shipping.
func ComputeTotals(cart domain.Cart) Totals {
	subtotal := Subtotal(cart)

	discount := decimal.Zero
	if subtotal.GreaterThan(DiscountThreshold) {
		discount = subtotal.Mul(DiscountRate)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: ShippingFlat,
		Total:    subtotal.Add(ShippingFlat).Sub(discount),
	}
}

// FormatMoney renders an amount with a dollar sign and two fraction digits.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormattedTotals holds display strings for each amount.
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// Formatted rounds every amount for display.
func (t Totals) Formatted() FormattedTotals {
	return FormattedTotals{
		Subtotal: FormatMoney(t.Subtotal),
		Discount: FormatMoney(t.Discount),
		Shipping: FormatMoney(t.Shipping),
		Total:    FormatMoney(t.Total),
	}
}

// MarshalJSON emits amounts as two-decimal strings. Clients display them as-is.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal string `json:"subtotal"`
		Discount string `json:"discount"`
		Shipping string `json:"shipping"`
		Total    string `json:"total"`
	}{
		Subtotal: t.Subtotal.StringFixed(2),
		Discount: t.Discount.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	})
}
