package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/shopvine/storefront/types"
)

// cartPayload accepts the two cart response shapes seen across backend
// versions: a bare item array, or the array wrapped in an "items" key.
type cartPayload []types.CartItem

func (p *cartPayload) UnmarshalJSON(data []byte) error {
	var items []types.CartItem
	if err := json.Unmarshal(data, &items); err == nil {
		*p = items
		return nil
	}

	var wrapped struct {
		Items []types.CartItem `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*p = wrapped.Items
	return nil
}

// GetCart fetches the authenticated user's cart items.
func (c *Client) GetCart(ctx context.Context, token string) ([]types.CartItem, error) {
	var payload cartPayload
	err := c.doJSON(ctx, http.MethodGet, "/cart", token, nil, &payload)
	return payload, err
}

// AddToCart adds quantity units of a product and returns the updated items.
func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) ([]types.CartItem, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	var payload cartPayload
	err := c.doJSON(ctx, http.MethodPost, "/cart/add", token, body, &payload)
	return payload, err
}

// UpdateCartItem sets a product's quantity and returns the updated items.
func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, quantity int) ([]types.CartItem, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	var payload cartPayload
	err := c.doJSON(ctx, http.MethodPut, "/cart/update", token, body, &payload)
	return payload, err
}

// RemoveCartItem removes a product and returns the updated items.
func (c *Client) RemoveCartItem(ctx context.Context, token, productID string) ([]types.CartItem, error) {
	var payload cartPayload
	err := c.doJSON(ctx, http.MethodDelete, "/cart/item/"+url.PathEscape(productID), token, nil, &payload)
	return payload, err
}

// ClearCart empties the cart and returns the (empty) item list.
func (c *Client) ClearCart(ctx context.Context, token string) ([]types.CartItem, error) {
	var payload cartPayload
	err := c.doJSON(ctx, http.MethodDelete, "/cart", token, nil, &payload)
	return payload, err
}
