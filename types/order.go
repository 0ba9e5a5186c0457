package types

import "time"

// Order mirrors a placed order as the backend reports it.
type Order struct {
	ID string `json:"_id"`

	// Items are the ordered lines, in the same normalized shape as cart
	// items.
	Items []CartItem `json:"items"`

	// TotalAmount is the order total computed server-side.
	TotalAmount float64 `json:"totalAmount"`

	// Status is the fulfillment status ("placed", "shipped",
	// "delivered", "cancelled").
	Status string `json:"status"`

	// Address is the shipping address captured at checkout.
	Address string `json:"address,omitempty"`

	// PaymentMethod is the method chosen at checkout. The client only
	// forwards it; no payment processing happens here.
	PaymentMethod string `json:"paymentMethod,omitempty"`

	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"createdAt"`
}

// OrderRequest carries the checkout fields forwarded verbatim to the
// backend when placing an order.
type OrderRequest struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
	Total  int     `json:"total"`
}
