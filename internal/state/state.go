// Package state holds the shared application state consumed by every view:
// the session identity, the catalog mirror, the cart count, and the search
// query. It is an explicit, injectable holder; only the session, catalog,
// and cart components mutate it, and views read through its accessors.
package state

import (
	"strings"
	"sync"

	"github.com/shopvine/storefront/types"
)

// State is the single shared state object. The zero value is a logged-out
// session with an empty catalog.
//
// The derived flags (IsAuthenticated, IsAdmin) are always computed from the
// token and role; they are never stored, so they cannot drift.
type State struct {
	mu sync.RWMutex

	user    *types.User
	token   string
	role    string
	email   string
	newName string

	cartCount int

	searchQuery string

	products         []types.Product
	productsLoaded   bool
	categories       []types.Category
	categoriesLoaded bool
}

func New() *State {
	return &State{role: types.RoleUser}
}

// SetSession replaces the identity fields wholesale after a login, profile
// refresh, or rehydration. An empty role defaults to "user".
func (s *State) SetSession(user types.User, token string) {
	role := user.Role
	if role == "" {
		role = types.RoleUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.token = token
	s.role = role
	s.email = user.Email
	s.newName = strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// ClearSession drops the identity and resets the role and cart count to
// their defaults. The catalog is unrelated state and is left untouched.
func (s *State) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.role = types.RoleUser
	s.email = ""
	s.newName = ""
	s.cartCount = 0
}

// User returns the current user snapshot, if any.
func (s *State) User() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return types.User{}, false
	}
	return *s.user, true
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// IsAuthenticated reports whether a credential token is present.
func (s *State) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the active role is the admin role.
func (s *State) IsAdmin() bool {
	return s.Role() == types.RoleAdmin
}

// Email returns the logged-in user's email, empty when logged out.
func (s *State) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// FullName returns the display name derived from the user record.
func (s *State) FullName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newName
}

func (s *State) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartCount
}

func (s *State) SetCartCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCount = n
}

func (s *State) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *State) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SetProducts replaces the product mirror wholesale.
func (s *State) SetProducts(products []types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.productsLoaded = true
}

// Products returns the product mirror and whether a load has completed.
// An empty list with loaded=false means "still loading", not "no products".
func (s *State) Products() ([]types.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, s.productsLoaded
}

// SetCategories replaces the category mirror wholesale.
func (s *State) SetCategories(categories []types.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.categoriesLoaded = true
}

// Categories returns the category mirror and whether a load has completed.
func (s *State) Categories() ([]types.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories, s.categoriesLoaded
}
