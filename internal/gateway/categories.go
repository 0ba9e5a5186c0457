package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/shopvine/storefront/types"
)

// SlideFile is one image part of a slide upload.
type SlideFile struct {
	Name   string
	Reader io.Reader
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	err := c.doJSON(ctx, http.MethodGet, "/categories", "", nil, &categories)
	return categories, err
}

// CreateCategory creates a category. Admin only.
func (c *Client) CreateCategory(ctx context.Context, token, name string) (types.Category, error) {
	body := map[string]string{"name": name}
	var category types.Category
	err := c.doJSON(ctx, http.MethodPost, "/categories", token, body, &category)
	return category, err
}

// DeleteCategory removes a category. Admin only.
func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), token, nil, nil)
}

// UploadCategorySlides attaches banner images to a category. Admin only.
func (c *Client) UploadCategorySlides(ctx context.Context, token, id string, files []SlideFile) (types.Category, error) {
	var category types.Category
	err := c.doMultipart(ctx, http.MethodPost, "/categories/"+url.PathEscape(id)+"/slides", token, func(fw *formWriter) error {
		for _, file := range files {
			if err := fw.File("slides", file.Name, file.Reader); err != nil {
				return err
			}
		}
		return nil
	}, &category)
	return category, err
}

// DeleteCategorySlide removes one banner image by path. Admin only.
func (c *Client) DeleteCategorySlide(ctx context.Context, token, id, slidePath string) error {
	body := map[string]string{"slide": slidePath}
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id)+"/slides", token, body, nil)
}

// ListHomeSlides fetches the homepage banner image paths. Public.
func (c *Client) ListHomeSlides(ctx context.Context) ([]string, error) {
	var slides []string
	err := c.doJSON(ctx, http.MethodGet, "/home/slides", "", nil, &slides)
	return slides, err
}

// UploadHomeSlides replaces or extends the homepage banners. Admin only.
func (c *Client) UploadHomeSlides(ctx context.Context, token string, files []SlideFile) ([]string, error) {
	var slides []string
	err := c.doMultipart(ctx, http.MethodPost, "/home/slides", token, func(fw *formWriter) error {
		for _, file := range files {
			if err := fw.File("slides", file.Name, file.Reader); err != nil {
				return err
			}
		}
		return nil
	}, &slides)
	return slides, err
}

// DeleteHomeSlide removes one homepage banner by path. Admin only.
func (c *Client) DeleteHomeSlide(ctx context.Context, token, slidePath string) error {
	body := map[string]string{"slide": slidePath}
	return c.doJSON(ctx, http.MethodDelete, "/home/slides", token, body, nil)
}
