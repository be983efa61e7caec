package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for CheckoutRequest: decimal prices
	// are opaque structs to tag-based rules, so the sign check lives here.
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

// checkoutStructValidation rejects carts carrying negative unit prices.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	for i, it := range req.CartItems {
		if it.Price.IsNegative() {
			sl.ReportError(it.Price, fmt.Sprintf("cartItems[%d].price", i), "Price", "price_non_negative", "")
		}
	}
}
