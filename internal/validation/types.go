package validation

import "github.com/italorizzo/checkout2/internal/cart"

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	CartItems     []cart.Item `json:"cartItems" validate:"required,min=1,dive"` // at least one item
	CustomerEmail string      `json:"customerEmail" validate:"omitempty,email"` // optional prefill for the session
}
