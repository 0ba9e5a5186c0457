package state

import (
	"testing"

	"github.com/shopvine/storefront/types"
)

func TestDerivedFlagsFollowTokenAndRole(t *testing.T) {
	st := New()

	if st.IsAuthenticated() {
		t.Fatal("fresh state must not be authenticated")
	}
	if st.IsAdmin() {
		t.Fatal("fresh state must not be admin")
	}
	if st.Role() != types.RoleUser {
		t.Fatalf("expected default role %q, got %q", types.RoleUser, st.Role())
	}

	st.SetSession(types.User{Email: "admin@example.com", Role: types.RoleAdmin}, "tok")
	if !st.IsAuthenticated() {
		t.Fatal("expected authenticated after SetSession")
	}
	if !st.IsAdmin() {
		t.Fatal("expected admin flag to follow the role")
	}

	st.ClearSession()
	if st.IsAuthenticated() || st.IsAdmin() {
		t.Fatal("expected flags to drop after ClearSession")
	}
	if st.CartCount() != 0 {
		t.Fatalf("expected cart count 0 after clear, got %d", st.CartCount())
	}
}

func TestSetSessionDefaultsRole(t *testing.T) {
	st := New()
	st.SetSession(types.User{Email: "a@example.com"}, "tok")
	if st.Role() != types.RoleUser {
		t.Fatalf("expected missing role to default to user, got %q", st.Role())
	}
}

func TestFullNameDerivedFromParts(t *testing.T) {
	st := New()
	st.SetSession(types.User{Email: "a@example.com", FirstName: "Ada", LastName: "Lovelace"}, "tok")
	if got := st.FullName(); got != "Ada Lovelace" {
		t.Fatalf("expected full name %q, got %q", "Ada Lovelace", got)
	}
}

func TestCatalogLoadedDistinctFromEmpty(t *testing.T) {
	st := New()
	if _, loaded := st.Products(); loaded {
		t.Fatal("products must not report loaded before the first load")
	}
	st.SetProducts([]types.Product{})
	if _, loaded := st.Products(); !loaded {
		t.Fatal("an empty load still counts as loaded")
	}
}
