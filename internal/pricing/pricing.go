package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/italorizzo/checkout2/internal/cart"
)

// Shipping labels surfaced to the customer and on the relayed order.
const (
	LabelFree     = "Free Shipping"
	LabelStandard = "Shipping"
)

var (
	freeThreshold = decimal.NewFromInt(50)
	baseShipping  = decimal.RequireFromString("9.90")
	shippingCap   = decimal.NewFromInt(15)
	ten           = decimal.NewFromInt(10)
)

// Result holds the derived totals for a cart. Never persisted.
type Result struct {
	Subtotal       decimal.Decimal
	ShippingAmount decimal.Decimal
	ShippingLabel  string
}

// FreeShipping reports whether the quote qualified for free shipping.
func (r Result) FreeShipping() bool {
	return r.ShippingLabel == LabelFree
}

// Quote computes the cart subtotal and the tiered shipping fee.
// Subtotals of 50 and above ship free; below that, every full 10 of
// subtotal knocks one unit off the 9.90 base fee, clamped to [0, 15].
// An empty cart quotes subtotal 0 and the full 9.90 fee.
func Quote(items []cart.Item) Result {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if subtotal.GreaterThanOrEqual(freeThreshold) {
		return Result{
			Subtotal:       subtotal,
			ShippingAmount: decimal.Zero,
			ShippingLabel:  LabelFree,
		}
	}

	discount := subtotal.Div(ten).Floor()
	fee := baseShipping.Sub(discount)
	if fee.LessThan(decimal.Zero) {
		fee = decimal.Zero
	}
	if fee.GreaterThan(shippingCap) {
		fee = shippingCap
	}

	return Result{
		Subtotal:       subtotal,
		ShippingAmount: fee,
		ShippingLabel:  LabelStandard,
	}
}
