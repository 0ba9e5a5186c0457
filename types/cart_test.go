package types

import (
	"encoding/json"
	"testing"
)

func TestCartItemFlatShape(t *testing.T) {
	data := []byte(`{"productId":"p1","quantity":2,"price":9.5,"name":"Red Shirt","image":"/uploads/red.png"}`)

	var item CartItem
	if err := json.Unmarshal(data, &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ProductID != "p1" || item.Quantity != 2 || item.Price != 9.5 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Name != "Red Shirt" || item.Image != "/uploads/red.png" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestCartItemExpandedProductID(t *testing.T) {
	data := []byte(`{"productId":{"_id":"p2","name":"Shirt Co.","price":14,"image":"/uploads/co.png"},"quantity":3}`)

	var item CartItem
	if err := json.Unmarshal(data, &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ProductID != "p2" {
		t.Fatalf("expected product ID from embedded document, got %q", item.ProductID)
	}
	if item.Name != "Shirt Co." || item.Price != 14 || item.Quantity != 3 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestCartItemProductKey(t *testing.T) {
	data := []byte(`{"product":{"_id":"p3","name":"Pants","price":20},"quantity":1}`)

	var item CartItem
	if err := json.Unmarshal(data, &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ProductID != "p3" || item.Name != "Pants" || item.Price != 20 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestQuantitySum(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}
	if got := QuantitySum(items); got != 5 {
		t.Fatalf("expected sum 5, got %d", got)
	}
	if got := QuantitySum(nil); got != 0 {
		t.Fatalf("expected empty sum 0, got %d", got)
	}
}
