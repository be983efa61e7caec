package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/italorizzo/checkout2/internal/cart"
	"github.com/italorizzo/checkout2/internal/pricing"
)

type fakeResolver struct {
	mu    sync.Mutex
	ids   map[string]int64
	calls []string
	err   error
}

func (f *fakeResolver) VariantIDBySKU(_ context.Context, sku string) (int64, bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sku)
	f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	id, ok := f.ids[sku]
	return id, ok, nil
}

func sessionWithCart(t *testing.T, items []cart.Item) *stripe.CheckoutSession {
	t.Helper()
	b, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal cart: %v", err)
	}
	return &stripe.CheckoutSession{
		Metadata: map[string]string{"cart": string(b)},
	}
}

func TestBuildOrder_LineItemResolution(t *testing.T) {
	items := []cart.Item{
		{Title: "Pre-resolved", VariantID: 111, SKU: "IGNORED", Price: decimal.RequireFromString("10.00"), Quantity: 1},
		{Title: "In Catalog", SKU: "CAT-01", Price: decimal.RequireFromString("5.00"), Quantity: 2},
		{Title: "Off Catalog", SKU: "MISS-01", Price: decimal.RequireFromString("3.00"), Quantity: 3},
		{Title: "No SKU", Price: decimal.RequireFromString("2.00"), Quantity: 1},
	}
	resolver := &fakeResolver{ids: map[string]int64{"CAT-01": 222}}
	b := &Builder{Variants: resolver}

	order, err := b.BuildOrder(context.Background(), sessionWithCart(t, items))
	if err != nil {
		t.Fatalf("BuildOrder error: %v", err)
	}
	if len(order.LineItems) != 4 {
		t.Fatalf("line items = %d, want 4", len(order.LineItems))
	}

	// explicit variant id wins without a lookup
	if order.LineItems[0].VariantID != 111 {
		t.Fatalf("line 0 variant = %d", order.LineItems[0].VariantID)
	}
	for _, sku := range resolver.calls {
		if sku == "IGNORED" {
			t.Fatal("lookup performed for item with explicit variant id")
		}
	}

	// catalog hit becomes a variant reference
	if order.LineItems[1].VariantID != 222 || order.LineItems[1].Quantity != 2 {
		t.Fatalf("line 1 = %+v", order.LineItems[1])
	}
	if order.LineItems[1].Price != nil {
		t.Fatal("variant line must not carry a price")
	}

	// catalog miss falls back to a freestanding line
	miss := order.LineItems[2]
	if miss.VariantID != 0 || miss.Name != "Off Catalog" || miss.Title != "Off Catalog" {
		t.Fatalf("line 2 = %+v", miss)
	}
	if miss.Price == nil || !miss.Price.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("line 2 price = %v", miss.Price)
	}

	// no SKU at all: freestanding, no lookup
	if order.LineItems[3].VariantID != 0 || order.LineItems[3].Name != "No SKU" {
		t.Fatalf("line 3 = %+v", order.LineItems[3])
	}
	if len(resolver.calls) != 2 {
		t.Fatalf("lookups = %v, want exactly CAT-01 and MISS-01", resolver.calls)
	}

	if order.FinancialStatus != "paid" {
		t.Fatalf("financial status = %q", order.FinancialStatus)
	}

	// subtotal 31.00 -> discount 3 -> 6.90 shipping
	line := order.ShippingLines[0]
	if line.Title != pricing.LabelStandard || !line.Price.Equal(decimal.RequireFromString("6.90")) {
		t.Fatalf("shipping line = %+v", line)
	}
	if !line.PriceSet.ShopMoney.Amount.Equal(line.Price) || line.PriceSet.ShopMoney.CurrencyCode != "USD" {
		t.Fatalf("price set = %+v", line.PriceSet)
	}
}

func TestBuildOrder_LookupFailureAborts(t *testing.T) {
	items := []cart.Item{
		{Title: "A", SKU: "X", Price: decimal.RequireFromString("1.00"), Quantity: 1},
	}
	resolver := &fakeResolver{err: errors.New("upstream 500")}
	b := &Builder{Variants: resolver}

	if _, err := b.BuildOrder(context.Background(), sessionWithCart(t, items)); err == nil {
		t.Fatal("expected lookup failure to abort the relay")
	}
}

func TestBuildOrder_MalformedMetadataDegradesToEmptyCart(t *testing.T) {
	b := &Builder{Variants: &fakeResolver{}}
	sess := &stripe.CheckoutSession{Metadata: map[string]string{"cart": "{not json"}}

	order, err := b.BuildOrder(context.Background(), sess)
	if err != nil {
		t.Fatalf("BuildOrder error: %v", err)
	}
	if len(order.LineItems) != 0 {
		t.Fatalf("line items = %d, want 0", len(order.LineItems))
	}
	// empty cart still pays the base shipping fee
	if !order.ShippingLines[0].Price.Equal(decimal.RequireFromString("9.90")) {
		t.Fatalf("shipping = %s", order.ShippingLines[0].Price)
	}
}

func TestResolveEmail_Chain(t *testing.T) {
	cases := []struct {
		name string
		sess *stripe.CheckoutSession
		want string
	}{
		{
			"customer details wins",
			&stripe.CheckoutSession{
				CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "details@example.com"},
				CustomerEmail:   "request@example.com",
			},
			"details@example.com",
		},
		{
			"session email next",
			&stripe.CheckoutSession{CustomerEmail: "request@example.com"},
			"request@example.com",
		},
		{
			"placeholder last",
			&stripe.CheckoutSession{},
			"nao@informado.com",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveEmail(tc.sess); got != tc.want {
				t.Fatalf("email = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveAddress_Chain(t *testing.T) {
	shipping := &stripe.Address{Line1: "1 Ship St", City: "Shipville", State: "SP", PostalCode: "11111", Country: "BR"}
	billing := &stripe.Address{Line1: "2 Bill Av", Line2: "Apt 3", City: "Billtown", State: "BT", PostalCode: "22222", Country: "BR"}

	t.Run("shipping details win", func(t *testing.T) {
		sess := &stripe.CheckoutSession{
			CollectedInformation: &stripe.CheckoutSessionCollectedInformation{
				ShippingDetails: &stripe.CheckoutSessionCollectedInformationShippingDetails{Address: shipping},
			},
			CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Name: "Ana", Phone: "+5511999", Address: billing},
		}
		got := resolveAddress(sess)
		if got == nil || got.Address1 != "1 Ship St" || got.City != "Shipville" {
			t.Fatalf("address = %+v", got)
		}
		if got.Name != "Ana" || got.Phone != "+5511999" {
			t.Fatalf("name/phone from customer details missing: %+v", got)
		}
	})

	t.Run("customer details address fallback", func(t *testing.T) {
		sess := &stripe.CheckoutSession{
			CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Name: "Ana", Address: billing},
		}
		got := resolveAddress(sess)
		if got == nil || got.Address1 != "2 Bill Av" || got.Address2 != "Apt 3" || got.Province != "BT" || got.Zip != "22222" {
			t.Fatalf("address = %+v", got)
		}
	})

	t.Run("no address omits the field", func(t *testing.T) {
		if got := resolveAddress(&stripe.CheckoutSession{}); got != nil {
			t.Fatalf("expected nil address, got %+v", got)
		}
	})
}
