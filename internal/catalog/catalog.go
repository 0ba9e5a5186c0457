// Package catalog mirrors the product and category listings so views can
// look up, filter, and search without a backend round trip per render.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/types"
)

// ErrNotLoaded is returned by lookups before the first successful product
// load. Callers treat it as "still loading", distinct from ErrNotFound.
var ErrNotLoaded = errors.New("catalog not loaded")

// ErrNotFound is returned when a product is absent from the loaded mirror.
var ErrNotFound = errors.New("product not found")

// Gateway is the slice of backend operations the catalog needs.
type Gateway interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	ListCategories(ctx context.Context) ([]types.Category, error)
	GetProduct(ctx context.Context, id string) (types.Product, error)
}

// Cache loads and serves the catalog mirror.
type Cache struct {
	state *state.State
	gw    Gateway
}

func New(st *state.State, gw Gateway) *Cache {
	return &Cache{state: st, gw: gw}
}

// LoadProducts replaces the product mirror wholesale. Partial merges are
// never performed, so entries deleted server-side cannot linger.
func (c *Cache) LoadProducts(ctx context.Context) error {
	products, err := c.gw.ListProducts(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.state.SetProducts(products)
	return nil
}

// LoadCategories replaces the category mirror wholesale.
func (c *Cache) LoadCategories(ctx context.Context) error {
	categories, err := c.gw.ListCategories(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.state.SetCategories(categories)
	return nil
}

// FindByID looks a product up in the loaded mirror. Before the first load
// it returns ErrNotLoaded rather than ErrNotFound.
func (c *Cache) FindByID(id string) (types.Product, error) {
	products, loaded := c.state.Products()
	if !loaded {
		return types.Product{}, ErrNotLoaded
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Product{}, ErrNotFound
}

// FetchProduct fetches a single product from the backend, bypassing the
// mirror. Used by detail views that must not serve a stale record.
func (c *Cache) FetchProduct(ctx context.Context, id string) (types.Product, error) {
	return c.gw.GetProduct(ctx, id)
}

// FilterByCategory returns products whose category matches name exactly,
// case-insensitively.
func (c *Cache) FilterByCategory(name string) []types.Product {
	products, _ := c.state.Products()
	matched := []types.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, name) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Search returns products whose name contains the query,
// case-insensitively. An empty query returns an empty result, not the
// full catalog; the search view shows nothing until something is typed.
func (c *Cache) Search(query string) []types.Product {
	matched := []types.Product{}
	if query == "" {
		return matched
	}

	query = strings.ToLower(query)
	products, _ := c.state.Products()
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Categories returns the loaded category mirror.
func (c *Cache) Categories() []types.Category {
	categories, _ := c.state.Categories()
	return categories
}

// UpsertProduct echoes an admin create/update into the mirror so the
// catalog reflects the write before the next full load.
func (c *Cache) UpsertProduct(product types.Product) {
	products, loaded := c.state.Products()
	if !loaded {
		return
	}
	replaced := false
	next := make([]types.Product, 0, len(products)+1)
	for _, p := range products {
		if p.ID == product.ID {
			next = append(next, product)
			replaced = true
			continue
		}
		next = append(next, p)
	}
	if !replaced {
		next = append(next, product)
	}
	c.state.SetProducts(next)
}

// RemoveProduct echoes an admin delete into the mirror.
func (c *Cache) RemoveProduct(id string) {
	products, loaded := c.state.Products()
	if !loaded {
		return
	}
	next := make([]types.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	c.state.SetProducts(next)
}
