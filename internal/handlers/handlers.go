package handlers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/italorizzo/checkout2/internal/idempotency"
	"github.com/italorizzo/checkout2/internal/payments"
	"github.com/italorizzo/checkout2/internal/relay"
	"github.com/italorizzo/checkout2/internal/shopify"
	"github.com/italorizzo/checkout2/internal/validation"
)

// CommerceAPI is the slice of the commerce platform client the webhook
// relay uses. Satisfied by *shopify.Client; tests substitute fakes.
type CommerceAPI interface {
	relay.VariantResolver
	CreateOrder(ctx context.Context, order shopify.Order) (json.RawMessage, error)
}

// HandlerConfig groups dependencies for the checkout endpoints.
type HandlerConfig struct {
	Sessions      payments.SessionAPI
	Commerce      CommerceAPI
	Events        *idempotency.Store
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// Register registers the checkout, status and webhook routes.
func Register(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/checkout", checkoutHandler(cfg, v))
	r.GET("/session-status", statusHandler(cfg))
	r.POST("/webhook", webhookHandler(cfg))
}
