package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopvine/storefront/types"
)

// PlaceOrder submits a checkout. The backend consumes the cart server-side.
func (c *Client) PlaceOrder(ctx context.Context, token string, req types.OrderRequest) (types.Order, error) {
	var order types.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders/place", token, req, &order)
	return order, err
}

// MyOrders fetches the authenticated user's order history.
func (c *Client) MyOrders(ctx context.Context, token string) ([]types.Order, error) {
	var orders []types.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/me", token, nil, &orders)
	return orders, err
}

// CancelOrder cancels an order by ID and returns its updated record.
func (c *Client) CancelOrder(ctx context.Context, token, id string) (types.Order, error) {
	var order types.Order
	err := c.doJSON(ctx, http.MethodPut, "/orders/cancel/"+url.PathEscape(id), token, nil, &order)
	return order, err
}

// ListOrders fetches one page of all orders. Admin only.
func (c *Client) ListOrders(ctx context.Context, token string, page, limit int) (types.OrderPage, error) {
	path := fmt.Sprintf("/orders?page=%d&limit=%d", page, limit)
	var result types.OrderPage
	err := c.doJSON(ctx, http.MethodGet, path, token, nil, &result)
	return result, err
}
