package types

import (
	"encoding/json"
	"fmt"
)

// CartItem is the canonical client-side view of one cart line. The backend
// reports cart items in several shapes depending on whether the product
// reference was expanded server-side:
//
//	{"productId": "p1", "quantity": 2, "price": 9.5, "name": "..."}
//	{"productId": {"_id": "p1", "name": "...", "price": 9.5}, "quantity": 2}
//	{"product": {...}, "quantity": 2}
//
// All variants are folded into this one type during unmarshalling; nothing
// downstream of the gateway ever sees the raw shapes.
type CartItem struct {
	// ProductID identifies the product this line refers to.
	ProductID string

	// Name is the product display name, when the backend expanded it.
	Name string

	// Price is the unit price of the product.
	Price float64

	// Image is the product image path, when expanded.
	Image string

	// Quantity is the number of units in the cart. Always positive in
	// server responses.
	Quantity int
}

type cartItemWire struct {
	ProductID json.RawMessage `json:"productId"`
	Product   *Product        `json:"product"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     float64         `json:"price"`
	Image     string          `json:"image"`
}

// UnmarshalJSON folds the accepted server shapes into the canonical item.
func (c *CartItem) UnmarshalJSON(data []byte) error {
	var wire cartItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	item := CartItem{
		Name:     wire.Name,
		Price:    wire.Price,
		Image:    wire.Image,
		Quantity: wire.Quantity,
	}

	if len(wire.ProductID) > 0 {
		switch wire.ProductID[0] {
		case '"':
			if err := json.Unmarshal(wire.ProductID, &item.ProductID); err != nil {
				return fmt.Errorf("cart item: invalid productId: %w", err)
			}
		case '{':
			var p Product
			if err := json.Unmarshal(wire.ProductID, &p); err != nil {
				return fmt.Errorf("cart item: invalid productId object: %w", err)
			}
			fillFromProduct(&item, p)
		}
	}
	if wire.Product != nil {
		fillFromProduct(&item, *wire.Product)
	}

	*c = item
	return nil
}

// MarshalJSON emits the flat shape, which every backend variant accepts.
func (c CartItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name,omitempty"`
		Price     float64 `json:"price"`
		Image     string  `json:"image,omitempty"`
		Quantity  int     `json:"quantity"`
	}{
		ProductID: c.ProductID,
		Name:      c.Name,
		Price:     c.Price,
		Image:     c.Image,
		Quantity:  c.Quantity,
	})
}

func fillFromProduct(item *CartItem, p Product) {
	if p.ID != "" {
		item.ProductID = p.ID
	}
	if p.Name != "" {
		item.Name = p.Name
	}
	if p.Price != 0 {
		item.Price = p.Price
	}
	if p.Image != "" {
		item.Image = p.Image
	}
}

// QuantitySum returns the total number of units across all items. It is the
// value mirrored into the local cart count.
func QuantitySum(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
