package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopvine/storefront/types"
)

// ProductForm carries the fields of the admin product create/update form.
// Image is optional; when set it is sent as a multipart file part.
type ProductForm struct {
	Name           string
	Price          float64
	Category       string
	Brand          string
	Description    string
	Specifications []string
	ImageName      string
	Image          io.Reader
}

func (p ProductForm) write(fw *formWriter) error {
	if err := fw.Field("name", p.Name); err != nil {
		return err
	}
	if err := fw.Field("price", strconv.FormatFloat(p.Price, 'f', -1, 64)); err != nil {
		return err
	}
	if err := fw.Field("category", p.Category); err != nil {
		return err
	}
	if err := fw.Field("brand", p.Brand); err != nil {
		return err
	}
	if err := fw.Field("description", p.Description); err != nil {
		return err
	}
	// One repeated field per line, in order.
	for _, spec := range p.Specifications {
		if err := fw.Field("specifications", spec); err != nil {
			return err
		}
	}
	return fw.File("image", p.ImageName, p.Image)
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	err := c.doJSON(ctx, http.MethodGet, "/products", "", nil, &products)
	return products, err
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (types.Product, error) {
	var product types.Product
	err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &product)
	return product, err
}

// CreateProduct creates a product. Admin only.
func (c *Client) CreateProduct(ctx context.Context, token string, form ProductForm) (types.Product, error) {
	var product types.Product
	err := c.doMultipart(ctx, http.MethodPost, "/products", token, form.write, &product)
	return product, err
}

// UpdateProduct replaces a product's fields. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, form ProductForm) (types.Product, error) {
	var product types.Product
	err := c.doMultipart(ctx, http.MethodPut, "/products/"+url.PathEscape(id), token, form.write, &product)
	return product, err
}

// DeleteProduct removes a product. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil)
}

// UploadProductImage attaches an image to an existing product. Admin only.
func (c *Client) UploadProductImage(ctx context.Context, token, id, filename string, image io.Reader) (types.Product, error) {
	var product types.Product
	err := c.doMultipart(ctx, http.MethodPost, "/products/"+url.PathEscape(id)+"/upload-image", token, func(fw *formWriter) error {
		return fw.File("image", filename, image)
	}, &product)
	return product, err
}
