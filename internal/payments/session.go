package payments

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/italorizzo/checkout2/internal/cart"
	"github.com/italorizzo/checkout2/internal/pricing"
)

// Label shown on the synthetic shipping line when the cart has not
// reached the free-shipping threshold. Customer-visible on the hosted
// checkout page, so it explains how to avoid the fee.
const paidShippingLabel = "Shipping (Free over $50)"

// Metadata keys attached to every session.
const (
	MetadataCart          = "cart"
	MetadataShippingLabel = "shipping_label"
)

const currencyUSD = "usd"

// BuildSessionParams converts a cart into checkout-session parameters:
// one price-per-unit line per item, one synthetic shipping line, and the
// serialized cart in metadata so the webhook relay can reconstruct the
// order without trusting provider line items.
func BuildSessionParams(items []cart.Item, customerEmail string, quote pricing.Result, successURL, cancelURL string) (*stripe.CheckoutSessionParams, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)+1)
	for _, it := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(it.Title),
			Metadata: map[string]string{"sku": it.SKU},
		}
		if it.Image != "" {
			product.Images = stripe.StringSlice([]string{it.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(it.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currencyUSD),
				UnitAmount:  stripe.Int64(minorUnits(it.Price)),
				ProductData: product,
			},
		})
	}

	shippingLabel := quote.ShippingLabel
	if !quote.FreeShipping() {
		shippingLabel = paidShippingLabel
	}
	lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currencyUSD),
			UnitAmount: stripe.Int64(minorUnits(quote.ShippingAmount)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(shippingLabel),
			},
		},
	})

	encodedCart, err := cart.EncodeMetadata(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart metadata: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.AddMetadata(MetadataCart, encodedCart)
	params.AddMetadata(MetadataShippingLabel, shippingLabel)

	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	return params, nil
}

// minorUnits converts a major-unit amount to the provider's smallest
// denomination (cents), rounding to the nearest integer.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
