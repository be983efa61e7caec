package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/italorizzo/checkout2/internal/config"
	"github.com/italorizzo/checkout2/internal/handlers"
	"github.com/italorizzo/checkout2/internal/idempotency"
	"github.com/italorizzo/checkout2/internal/middleware"
	"github.com/italorizzo/checkout2/internal/payments"
	"github.com/italorizzo/checkout2/internal/shopify"
)

func setupRouter(cfg handlers.HandlerConfig, allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(allowedOrigin))

	// unregistered verbs on known paths answer 405, not 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method_not_allowed"})
	})

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.Register(r, cfg)

	return r
}

func main() {
	cfg := config.Load()

	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		// not fatal: only the webhook endpoint is unusable without it
		log.Printf("STRIPE_WEBHOOK_SECRET is not set; webhook deliveries will be rejected")
	}

	shopifyClient, err := shopify.NewClient(
		"https://"+cfg.ShopifyDomain,
		cfg.ShopifyAccessToken,
		&http.Client{Timeout: cfg.UpstreamTimeout},
	)
	if err != nil {
		log.Fatalf("failed to init shopify client: %v", err)
	}

	events := idempotency.NewStore(cfg.EventTTLWindow)
	events.SweepEvery(time.Hour)

	hcfg := handlers.HandlerConfig{
		Sessions:      payments.NewSessionClient(cfg.StripeSecretKey),
		Commerce:      shopifyClient,
		Events:        events,
		WebhookSecret: cfg.StripeWebhookSecret,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
	}

	r := setupRouter(hcfg, cfg.AllowedOrigin)

	log.Printf("running server on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
