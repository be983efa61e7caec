package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Item is one entry in a customer's cart. The same shape travels
// browser -> checkout request -> session metadata -> webhook relay.
type Item struct {
	Title     string          `json:"title" validate:"required"`         // product display name
	SKU       string          `json:"sku,omitempty"`                     // optional stock keeping unit
	Price     decimal.Decimal `json:"price"`                             // price per unit, major currency unit
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Image     string          `json:"image,omitempty"`                   // optional product image URL
	VariantID int64           `json:"variant_id,omitempty"`              // optional pre-resolved commerce variant
}

// EncodeMetadata serializes a cart for storage in checkout-session metadata.
func EncodeMetadata(items []Item) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMetadata recovers a cart from session metadata. Missing or
// malformed metadata yields an empty cart rather than an error: the relay
// degrades to an order without catalog lines instead of dropping the event.
func DecodeMetadata(raw string) []Item {
	if raw == "" {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Item{}
	}
	if items == nil {
		return []Item{}
	}
	return items
}
