package payments

import (
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// SessionAPI is the slice of the payment provider's client that the
// endpoints use. Concrete implementation is the Stripe checkout-session
// client; tests substitute fakes.
type SessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewSessionClient builds a Stripe-backed SessionAPI bound to the given
// secret key. No package-level client: the handle is constructed once in
// main and passed down.
func NewSessionClient(apiKey string) SessionAPI {
	api := client.New(apiKey, nil)
	return api.CheckoutSessions
}

// ExpandedParams returns retrieve params asking for the purchased line
// items and customer details alongside the bare session.
func ExpandedParams() *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("customer_details")
	return params
}
