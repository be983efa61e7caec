package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/italorizzo/checkout2/internal/cart"
)

func TestCheckoutRequest_Valid(t *testing.T) {
	v := New()

	req := CheckoutRequest{
		CartItems: []cart.Item{
			{Title: "Dog Bed", SKU: "BED-01", Price: decimal.RequireFromString("29.90"), Quantity: 1},
			{Title: "Chew Toy", Price: decimal.RequireFromString("5.50"), Quantity: 2},
		},
		CustomerEmail: "buyer@example.com",
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCheckoutRequest_EmptyCart(t *testing.T) {
	v := New()

	req := CheckoutRequest{CartItems: []cart.Item{}}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for empty cart, got nil")
	}
}

func TestCheckoutRequest_NegativePrice(t *testing.T) {
	v := New()

	req := CheckoutRequest{
		CartItems: []cart.Item{
			{Title: "Broken", Price: decimal.RequireFromString("-1.00"), Quantity: 1},
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for negative price, got nil")
	}
}

func TestCheckoutRequest_ZeroQuantity(t *testing.T) {
	v := New()

	req := CheckoutRequest{
		CartItems: []cart.Item{
			{Title: "Ghost", Price: decimal.RequireFromString("1.00"), Quantity: 0},
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for zero quantity, got nil")
	}
}

func TestCheckoutRequest_BadEmail(t *testing.T) {
	v := New()

	req := CheckoutRequest{
		CartItems: []cart.Item{
			{Title: "Dog Bed", Price: decimal.RequireFromString("10.00"), Quantity: 1},
		},
		CustomerEmail: "not-an-email",
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for malformed email, got nil")
	}
}
