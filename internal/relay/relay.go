package relay

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"golang.org/x/sync/errgroup"

	"github.com/italorizzo/checkout2/internal/cart"
	"github.com/italorizzo/checkout2/internal/payments"
	"github.com/italorizzo/checkout2/internal/pricing"
	"github.com/italorizzo/checkout2/internal/shopify"
)

// Last-resort order email when neither the session's customer details
// nor the checkout request carried one.
const placeholderEmail = "nao@informado.com"

// VariantResolver looks up a catalog variant id for a SKU.
// found=false means the SKU has no catalog entry (not an error).
type VariantResolver interface {
	VariantIDBySKU(ctx context.Context, sku string) (int64, bool, error)
}

// Builder translates a completed checkout session into an order payload
// for the commerce platform.
type Builder struct {
	Variants VariantResolver
}

// BuildOrder recovers the cart from session metadata, resolves each item
// against the catalog, re-derives pricing for the shipping line, and
// assembles the order. The metadata cart is the source of truth for the
// downstream order; provider totals are never read back.
func (b *Builder) BuildOrder(ctx context.Context, sess *stripe.CheckoutSession) (shopify.Order, error) {
	items := cart.DecodeMetadata(sess.Metadata[payments.MetadataCart])

	lineItems, err := b.resolveLineItems(ctx, items)
	if err != nil {
		return shopify.Order{}, err
	}

	quote := pricing.Quote(items)

	return shopify.Order{
		Email:           resolveEmail(sess),
		FinancialStatus: shopify.FinancialStatusPaid,
		LineItems:       lineItems,
		ShippingLines:   []shopify.ShippingLine{shopify.NewShippingLine(quote.ShippingLabel, quote.ShippingAmount)},
		ShippingAddress: resolveAddress(sess),
	}, nil
}

// resolveLineItems runs one catalog resolution per cart item
// concurrently and joins before returning. Results are indexed by the
// item's original position, so line order always matches cart order.
func (b *Builder) resolveLineItems(ctx context.Context, items []cart.Item) ([]shopify.OrderLineItem, error) {
	resolved := make([]shopify.OrderLineItem, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			line, err := b.resolveLineItem(ctx, it)
			if err != nil {
				return err
			}
			resolved[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// lineItemStrategy attempts one way of turning a cart item into an order
// line. ok=false means not applicable, try the next strategy.
type lineItemStrategy func(ctx context.Context, it cart.Item) (shopify.OrderLineItem, bool, error)

// strategies are evaluated left-to-right; the last one always applies.
func (b *Builder) strategies() []lineItemStrategy {
	return []lineItemStrategy{
		explicitVariant,
		b.catalogLookup,
		freestanding,
	}
}

func (b *Builder) resolveLineItem(ctx context.Context, it cart.Item) (shopify.OrderLineItem, error) {
	for _, strategy := range b.strategies() {
		line, ok, err := strategy(ctx, it)
		if err != nil {
			return shopify.OrderLineItem{}, err
		}
		if ok {
			return line, nil
		}
	}
	// freestanding never declines
	panic("relay: no line item strategy applied")
}

// explicitVariant uses a variant id already carried by the cart item.
func explicitVariant(_ context.Context, it cart.Item) (shopify.OrderLineItem, bool, error) {
	if it.VariantID == 0 {
		return shopify.OrderLineItem{}, false, nil
	}
	return shopify.OrderLineItem{VariantID: it.VariantID, Quantity: it.Quantity}, true, nil
}

// catalogLookup resolves a SKU against the commerce platform. A SKU with
// no catalog match declines so the item falls through to a freestanding
// line; a failed lookup call aborts the relay.
func (b *Builder) catalogLookup(ctx context.Context, it cart.Item) (shopify.OrderLineItem, bool, error) {
	if it.SKU == "" {
		return shopify.OrderLineItem{}, false, nil
	}
	id, found, err := b.Variants.VariantIDBySKU(ctx, it.SKU)
	if err != nil {
		return shopify.OrderLineItem{}, false, err
	}
	if !found {
		return shopify.OrderLineItem{}, false, nil
	}
	return shopify.OrderLineItem{VariantID: id, Quantity: it.Quantity}, true, nil
}

// freestanding emits a non-catalog line carrying its own name and price.
func freestanding(_ context.Context, it cart.Item) (shopify.OrderLineItem, bool, error) {
	price := it.Price
	return shopify.OrderLineItem{
		Name:     it.Title,
		Title:    it.Title,
		Price:    &price,
		Quantity: it.Quantity,
	}, true, nil
}

// resolveEmail walks the ordered email sources and returns the first
// non-empty one, ending in the placeholder literal.
func resolveEmail(sess *stripe.CheckoutSession) string {
	sources := []func() string{
		func() string {
			if sess.CustomerDetails != nil {
				return sess.CustomerDetails.Email
			}
			return ""
		},
		func() string { return sess.CustomerEmail },
	}
	for _, source := range sources {
		if v := source(); v != "" {
			return v
		}
	}
	return placeholderEmail
}

// resolveAddress walks the ordered address sources: collected shipping
// address first, then the billing address from customer details. Returns
// nil when neither exists so the order omits the field entirely.
func resolveAddress(sess *stripe.CheckoutSession) *shopify.Address {
	sources := []func() *stripe.Address{
		func() *stripe.Address {
			if sess.CollectedInformation != nil && sess.CollectedInformation.ShippingDetails != nil {
				return sess.CollectedInformation.ShippingDetails.Address
			}
			return nil
		},
		func() *stripe.Address {
			if sess.CustomerDetails != nil {
				return sess.CustomerDetails.Address
			}
			return nil
		},
	}

	var raw *stripe.Address
	for _, source := range sources {
		if a := source(); a != nil {
			raw = a
			break
		}
	}
	if raw == nil {
		return nil
	}

	var name, phone string
	if sess.CustomerDetails != nil {
		name = sess.CustomerDetails.Name
		phone = sess.CustomerDetails.Phone
	}

	return &shopify.Address{
		Address1: raw.Line1,
		Address2: raw.Line2,
		City:     raw.City,
		Province: raw.State,
		Country:  raw.Country,
		Zip:      raw.PostalCode,
		Name:     name,
		Phone:    phone,
	}
}
