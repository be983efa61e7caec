package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/italorizzo/checkout2/internal/payments"
)

// Generic message for any status lookup failure; provider internals must
// not leak to the browser.
const sessionNotFoundMsg = "Invalid session_id or session not found"

type statusAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type productSummary struct {
	Title       string          `json:"title"`
	Quantity    int64           `json:"quantity"`
	AmountTotal decimal.Decimal `json:"amount_total"` // major currency unit
}

type sessionStatusResponse struct {
	Status   string           `json:"status"`
	Email    string           `json:"email"`
	Name     string           `json:"name"`
	Address  *statusAddress   `json:"address"`
	Products []productSummary `json:"products"`
}

// statusHandler projects a checkout session into the summary the return
// page polls for.
func statusHandler(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("session_id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": sessionNotFoundMsg})
			return
		}

		sess, err := cfg.Sessions.Get(id, payments.ExpandedParams())
		if err != nil {
			log.Printf("[status] retrieve %s failed: %v", id, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": sessionNotFoundMsg})
			return
		}

		resp := sessionStatusResponse{
			Status:   string(sess.Status),
			Products: []productSummary{},
		}
		if sess.CustomerDetails != nil {
			resp.Email = sess.CustomerDetails.Email
			resp.Name = sess.CustomerDetails.Name
			if a := sess.CustomerDetails.Address; a != nil {
				resp.Address = &statusAddress{
					Line1:      a.Line1,
					Line2:      a.Line2,
					City:       a.City,
					State:      a.State,
					PostalCode: a.PostalCode,
					Country:    a.Country,
				}
			}
		}
		if sess.LineItems != nil {
			for _, li := range sess.LineItems.Data {
				resp.Products = append(resp.Products, productSummary{
					Title:       li.Description,
					Quantity:    li.Quantity,
					AmountTotal: decimal.New(li.AmountTotal, -2),
				})
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
