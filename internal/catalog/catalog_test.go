package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/types"
)

type fakeGateway struct {
	products   []types.Product
	categories []types.Category
	err        error
}

func (f *fakeGateway) ListProducts(ctx context.Context) ([]types.Product, error) {
	return f.products, f.err
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]types.Category, error) {
	return f.categories, f.err
}

func (f *fakeGateway) GetProduct(ctx context.Context, id string) (types.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Product{}, errors.New("no such product")
}

func loadedCache(t *testing.T, products []types.Product) *Cache {
	t.Helper()
	cache := New(state.New(), &fakeGateway{products: products})
	if err := cache.LoadProducts(context.Background()); err != nil {
		t.Fatalf("load products: %v", err)
	}
	return cache
}

func TestFindByIDBeforeLoad(t *testing.T) {
	cache := New(state.New(), &fakeGateway{})

	_, err := cache.FindByID("p1")
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before the first load, got %v", err)
	}
}

func TestFindByIDAfterLoad(t *testing.T) {
	cache := loadedCache(t, []types.Product{{ID: "p1", Name: "Red Shirt"}})

	product, err := cache.FindByID("p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if product.Name != "Red Shirt" {
		t.Fatalf("unexpected product %+v", product)
	}

	_, err = cache.FindByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an absent ID, got %v", err)
	}
}

func TestFindByIDAfterEmptyLoad(t *testing.T) {
	cache := loadedCache(t, nil)

	_, err := cache.FindByID("p1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("an empty load still counts as loaded, got %v", err)
	}
}

func TestLoadFailureKeepsMirror(t *testing.T) {
	gw := &fakeGateway{products: []types.Product{{ID: "p1", Name: "Red Shirt"}}}
	cache := New(state.New(), gw)
	if err := cache.LoadProducts(context.Background()); err != nil {
		t.Fatalf("load products: %v", err)
	}

	gw.err = errors.New("backend down")
	if err := cache.LoadProducts(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}
	if _, err := cache.FindByID("p1"); err != nil {
		t.Fatalf("failed reload must keep the previous mirror, got %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	cache := loadedCache(t, []types.Product{{ID: "p1", Name: "Red Shirt"}})

	got := cache.Search("")
	if got == nil || len(got) != 0 {
		t.Fatalf("empty query must return an empty slice, got %v", got)
	}
}

func TestSearchMatchesNameSubstring(t *testing.T) {
	cache := loadedCache(t, []types.Product{
		{ID: "p1", Name: "Red Shirt"},
		{ID: "p2", Name: "Shirt Co. Hoodie"},
		{ID: "p3", Name: "Pants"},
	})

	got := cache.Search("shirt")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d (%v)", len(got), got)
	}
	if got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestFilterByCategoryCaseInsensitive(t *testing.T) {
	cache := loadedCache(t, []types.Product{
		{ID: "p1", Name: "Red Shirt", Category: "Fashion"},
		{ID: "p2", Name: "Laptop", Category: "Electronics"},
	})

	got := cache.FilterByCategory("fashion")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("unexpected filter result %v", got)
	}
	if got := cache.FilterByCategory("Fashions"); len(got) != 0 {
		t.Fatalf("expected exact-name match only, got %v", got)
	}
}

func TestUpsertProductEchoesIntoMirror(t *testing.T) {
	cache := loadedCache(t, []types.Product{{ID: "p1", Name: "Red Shirt", Price: 9.5}})

	cache.UpsertProduct(types.Product{ID: "p1", Name: "Red Shirt", Price: 12})
	product, err := cache.FindByID("p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if product.Price != 12 {
		t.Fatalf("expected updated price, got %v", product.Price)
	}

	cache.UpsertProduct(types.Product{ID: "p2", Name: "Pants"})
	if _, err := cache.FindByID("p2"); err != nil {
		t.Fatalf("expected created product in mirror, got %v", err)
	}
}

func TestUpsertBeforeLoadIsNoop(t *testing.T) {
	cache := New(state.New(), &fakeGateway{})

	cache.UpsertProduct(types.Product{ID: "p1", Name: "Red Shirt"})
	if _, err := cache.FindByID("p1"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("echo before load must not mark the mirror loaded, got %v", err)
	}
}

func TestRemoveProductEchoesIntoMirror(t *testing.T) {
	cache := loadedCache(t, []types.Product{{ID: "p1", Name: "Red Shirt"}})

	cache.RemoveProduct("p1")
	if _, err := cache.FindByID("p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected removed product gone from mirror, got %v", err)
	}
}

func TestLoadCategories(t *testing.T) {
	cache := New(state.New(), &fakeGateway{categories: []types.Category{{ID: "c1", Name: "Fashion"}}})

	if got := cache.Categories(); len(got) != 0 {
		t.Fatalf("expected no categories before load, got %v", got)
	}
	if err := cache.LoadCategories(context.Background()); err != nil {
		t.Fatalf("load categories: %v", err)
	}
	got := cache.Categories()
	if len(got) != 1 || got[0].Name != "Fashion" {
		t.Fatalf("unexpected categories %v", got)
	}
}
