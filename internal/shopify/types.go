package shopify

import "github.com/shopspring/decimal"

// Financial status assigned to relayed orders: the provider already
// captured the payment before the webhook fired.
const FinancialStatusPaid = "paid"

// OrderLineItem is one line of an order. Either VariantID references a
// catalog variant, or the line is freestanding and carries its own
// name/title/price.
type OrderLineItem struct {
	VariantID int64            `json:"variant_id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Title     string           `json:"title,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  int              `json:"quantity"`
}

// Money is an amount/currency pair inside a price set.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// PriceSet mirrors the Admin API's dual shop/presentment money shape.
type PriceSet struct {
	ShopMoney        Money `json:"shop_money"`
	PresentmentMoney Money `json:"presentment_money"`
}

// ShippingLine is the order's shipping fee entry.
type ShippingLine struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	PriceSet PriceSet        `json:"price_set"`
}

// Address is the order's shipping address in Admin API field names.
type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// Order is the order-creation payload. ShippingAddress is omitted
// entirely when no address could be resolved.
type Order struct {
	Email           string          `json:"email"`
	FinancialStatus string          `json:"financial_status"`
	LineItems       []OrderLineItem `json:"line_items"`
	ShippingLines   []ShippingLine  `json:"shipping_lines"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
}

// NewShippingLine builds a shipping line with the price mirrored into the
// price set in USD.
func NewShippingLine(title string, price decimal.Decimal) ShippingLine {
	money := Money{Amount: price, CurrencyCode: "USD"}
	return ShippingLine{
		Title:    title,
		Price:    price,
		PriceSet: PriceSet{ShopMoney: money, PresentmentMoney: money},
	}
}
