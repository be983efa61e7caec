package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/italorizzo/checkout2/internal/payments"
	"github.com/italorizzo/checkout2/internal/pricing"
	"github.com/italorizzo/checkout2/internal/validation"
)

// checkoutHandler validates the cart, prices it, and creates a payment
// session; the caller is redirected to the session URL.
func checkoutHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		for _, it := range req.CartItems {
			sku := it.SKU
			if sku == "" {
				sku = "(no sku)"
			}
			log.Printf("[checkout] item %s | SKU: %s | qty %d | $%s", it.Title, sku, it.Quantity, it.Price)
		}

		quote := pricing.Quote(req.CartItems)

		params, err := payments.BuildSessionParams(req.CartItems, req.CustomerEmail, quote, cfg.SuccessURL, cfg.CancelURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		sess, err := cfg.Sessions.New(params)
		if err != nil {
			log.Printf("[checkout] session create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": sess.URL})
	}
}
