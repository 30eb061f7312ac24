package services

import "testing"

func TestFirstNumberPrecedence(t *testing.T) {
	m := map[string]interface{}{
		"NetPrice":  12.5,
		"UnitPrice": 10.0,
		"Price":     1.0,
	}

	got, ok := FirstNumber(m, "UnitPrice", "NetPrice", "Price")
	if !ok {
		t.Fatal("expected a number")
	}
	if got != 10.0 {
		t.Fatalf("expected UnitPrice to win, got %v", got)
	}
}

func TestFirstNumberSkipsUnusable(t *testing.T) {
	m := map[string]interface{}{
		"UnitPrice": nil,
		"NetPrice":  "not a number",
		"Price":     "19.99",
	}

	got, ok := FirstNumber(m, "UnitPrice", "NetPrice", "Price")
	if !ok {
		t.Fatal("expected the string price to parse")
	}
	if got != 19.99 {
		t.Fatalf("expected 19.99, got %v", got)
	}
}

func TestFirstNumberMissing(t *testing.T) {
	if _, ok := FirstNumber(map[string]interface{}{}, "UnitPrice"); ok {
		t.Fatal("expected no number from an empty document")
	}
}

func TestFirstStringTrimsAndSkipsEmpty(t *testing.T) {
	m := map[string]interface{}{
		"ItemNumber": "   ",
		"itemNumber": "  ABC-123  ",
	}

	got, ok := FirstString(m, "ItemNumber", "itemNumber")
	if !ok || got != "ABC-123" {
		t.Fatalf("expected ABC-123, got %q (ok=%v)", got, ok)
	}
}

func TestFirstBool(t *testing.T) {
	m := map[string]interface{}{"Error": "true"}
	got, ok := FirstBool(m, "PricingError", "Error")
	if !ok || !got {
		t.Fatalf("expected true, got %v (ok=%v)", got, ok)
	}

	if _, ok := FirstBool(map[string]interface{}{}, "Error"); ok {
		t.Fatal("expected no bool from an empty document")
	}
}
