package payments

import (
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// EventCheckoutCompleted is the only event type the relay acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// VerifyEvent recomputes the signature over the raw, unparsed payload and
// returns the decoded event. The payload must be the exact request body
// bytes; any re-serialization breaks the signature. API version mismatch
// is not an error: events follow the account's pinned version, not the SDK's.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
