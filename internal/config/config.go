package config

import (
	"os"
	"strings"
	"time"
)

// Config carries everything the service reads from the environment.
// Secrets have no defaults; URLs default to the storefront.
type Config struct {
	Addr            string
	AllowedOrigin   string
	SuccessURL      string
	CancelURL       string
	UpstreamTimeout time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string

	ShopifyDomain      string
	ShopifyAccessToken string

	// How long processed webhook event ids are remembered for dedup.
	EventTTLWindow time.Duration
}

func Load() Config {
	return Config{
		Addr:            ":" + getenv("PORT", "8080"),
		AllowedOrigin:   getenv("ALLOWED_ORIGIN", "https://petzycompany.store"),
		SuccessURL:      getenv("CHECKOUT_SUCCESS_URL", "https://petzycompany.store/pages/thank-you-for-your-purchase"),
		CancelURL:       getenv("CHECKOUT_CANCEL_URL", "https://petzycompany.store/cart"),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		ShopifyDomain:      getenv("SHOPIFY_STORE_DOMAIN", "zdmmqb-9d.myshopify.com"),
		ShopifyAccessToken: os.Getenv("SHOPIFY_ADMIN_TOKEN"),

		EventTTLWindow: parseDuration(getenv("WEBHOOK_EVENT_TTL", "48h"), 48*time.Hour),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
