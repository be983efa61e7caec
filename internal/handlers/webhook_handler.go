package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"

	"github.com/italorizzo/checkout2/internal/idempotency"
	"github.com/italorizzo/checkout2/internal/payments"
	"github.com/italorizzo/checkout2/internal/relay"
	"github.com/italorizzo/checkout2/internal/shopify"
)

const signatureHeader = "Stripe-Signature"

// webhookHandler verifies an inbound signed event and relays completed
// checkout sessions to the commerce platform as paid orders. Deliveries
// are deduplicated by event id; a completed duplicate replays the
// original response.
func webhookHandler(cfg HandlerConfig) gin.HandlerFunc {
	builder := &relay.Builder{Variants: cfg.Commerce}

	return func(c *gin.Context) {
		// raw bytes first: the signature covers the body exactly as sent
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_body"})
			return
		}

		if cfg.WebhookSecret == "" {
			log.Printf("[webhook] STRIPE_WEBHOOK_SECRET is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook_misconfigured"})
			return
		}

		event, err := payments.VerifyEvent(payload, c.GetHeader(signatureHeader), cfg.WebhookSecret)
		if err != nil {
			log.Printf("[webhook] signature verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
			return
		}

		created, rec := cfg.Events.Begin(event.ID)
		if !created {
			switch rec.Status {
			case idempotency.StatusDone:
				log.Printf("[webhook] duplicate delivery for %s, replaying stored response", event.ID)
				c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			default:
				// IN_PROGRESS: another delivery of the same event is
				// mid-flight. Answer non-2xx so the provider retries later
				// in case that attempt fails; a 2xx here would bury the
				// event if the in-flight relay errors out.
				c.JSON(http.StatusConflict, gin.H{"error": "delivery_in_progress"})
			}
			return
		}

		if event.Type != payments.EventCheckoutCompleted {
			ack(c, cfg.Events, event.ID)
			return
		}

		ctx := c.Request.Context()

		var ref stripe.CheckoutSession
		if event.Data == nil {
			cfg.Events.MarkFailed(event.ID, "bad_event_object: no data")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed_event_object"})
			return
		}
		if err := json.Unmarshal(event.Data.Raw, &ref); err != nil {
			cfg.Events.MarkFailed(event.ID, fmt.Sprintf("bad_event_object: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed_event_object"})
			return
		}

		// the event payload is not trusted to be complete; re-fetch the
		// session with line items and customer details
		sess, err := cfg.Sessions.Get(ref.ID, payments.ExpandedParams())
		if err != nil {
			cfg.Events.MarkFailed(event.ID, fmt.Sprintf("session_fetch_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		order, err := builder.BuildOrder(ctx, sess)
		if err != nil {
			cfg.Events.MarkFailed(event.ID, fmt.Sprintf("build_order_failed: %v", err))
			c.JSON(http.StatusInternalServerError, upstreamErrorBody(err))
			return
		}

		data, err := cfg.Commerce.CreateOrder(ctx, order)
		if err != nil {
			log.Printf("[webhook] order create failed for %s: %v", sess.ID, err)
			cfg.Events.MarkFailed(event.ID, fmt.Sprintf("order_create_failed: %v", err))
			c.JSON(http.StatusInternalServerError, upstreamErrorBody(err))
			return
		}

		log.Printf("[webhook] order relayed for session %s", sess.ID)

		body, _ := json.Marshal(gin.H{"success": true, "data": json.RawMessage(data)})
		cfg.Events.MarkDone(event.ID, string(body), http.StatusOK)
		c.Data(http.StatusOK, "application/json", body)
	}
}

// ack acknowledges an event the relay does not act on. Stored so a
// redelivery gets the same answer without reprocessing.
func ack(c *gin.Context, events *idempotency.Store, eventID string) {
	body := `{"received":true}`
	events.MarkDone(eventID, body, http.StatusOK)
	c.Data(http.StatusOK, "application/json", []byte(body))
}

// upstreamErrorBody surfaces the platform's own error payload when the
// failure was a commerce API response.
func upstreamErrorBody(err error) gin.H {
	var apiErr *shopify.APIError
	if errors.As(err, &apiErr) {
		return gin.H{"error": apiErr.Payload()}
	}
	return gin.H{"error": err.Error()}
}
