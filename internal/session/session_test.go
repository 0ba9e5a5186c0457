package session

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopvine/storefront/internal/backendtest"
	"github.com/shopvine/storefront/internal/cart"
	"github.com/shopvine/storefront/internal/gateway"
	"github.com/shopvine/storefront/internal/notify"
	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/internal/storage"
	"github.com/shopvine/storefront/types"
)

type stack struct {
	backend *backendtest.Server
	state   *state.State
	store   *Store
	cart    *cart.Synchronizer
	durable *storage.MemoryStore
	noticed *notify.Recorder
}

func newStack(t *testing.T) *stack {
	t.Helper()

	backend := backendtest.New()
	httpSrv := httptest.NewServer(backend.Handler())
	t.Cleanup(httpSrv.Close)

	gw, err := gateway.New(httpSrv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	st := state.New()
	recorder := &notify.Recorder{}
	durable := storage.NewMemoryStore()
	sess := New(st, gw, durable, notify.NewDedup(recorder))
	cartSync := cart.New(st, gw, sess)
	sess.BindCart(cartSync)

	return &stack{
		backend: backend,
		state:   st,
		store:   sess,
		cart:    cartSync,
		durable: durable,
		noticed: recorder,
	}
}

// reopen builds a second client process over the same durable storage and
// backend, as a restart would.
func (s *stack) reopen(t *testing.T) *stack {
	t.Helper()

	httpSrv := httptest.NewServer(s.backend.Handler())
	t.Cleanup(httpSrv.Close)
	gw, err := gateway.New(httpSrv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	st := state.New()
	recorder := &notify.Recorder{}
	sess := New(st, gw, s.durable, notify.NewDedup(recorder))
	cartSync := cart.New(st, gw, sess)
	sess.BindCart(cartSync)

	return &stack{
		backend: s.backend,
		state:   st,
		store:   sess,
		cart:    cartSync,
		durable: s.durable,
		noticed: recorder,
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !s.state.IsAuthenticated() {
		t.Fatal("expected authenticated state after login")
	}
	if s.state.IsAdmin() {
		t.Fatal("plain user must not be admin")
	}
	if got := s.state.FullName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", got)
	}

	token, _ := s.durable.Get(ctx, storage.KeyToken)
	if token == "" {
		t.Fatal("expected persisted token")
	}
	email, _ := s.durable.Get(ctx, storage.KeyEmail)
	if email != "ada@example.com" {
		t.Fatalf("expected persisted email, got %q", email)
	}
	role, _ := s.durable.Get(ctx, storage.KeyRole)
	if role != types.RoleUser {
		t.Fatalf("expected persisted role %q, got %q", types.RoleUser, role)
	}
}

func TestLoginBadCredentialsLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)

	err := s.store.Login(ctx, "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if s.state.IsAuthenticated() {
		t.Fatal("failed login must not authenticate")
	}
	token, _ := s.durable.Get(ctx, storage.KeyToken)
	if token != "" {
		t.Fatalf("failed login must not persist a token, got %q", token)
	}
}

func TestGoogleLoginSplitsFullName(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	if err := s.store.LoginWithGoogle(ctx, "google:ada@example.com:Ada Lovelace"); err != nil {
		t.Fatalf("google login: %v", err)
	}

	user, ok := s.state.User()
	if !ok {
		t.Fatal("expected a user record")
	}
	if user.FirstName != "Ada" || user.LastName != "Lovelace" {
		t.Fatalf("expected split name Ada/Lovelace, got %q/%q", user.FirstName, user.LastName)
	}
}

func TestGoogleLoginSplitsMultiWordLastName(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	if err := s.store.LoginWithGoogle(ctx, "google:gvr@example.com:Guido van Rossum"); err != nil {
		t.Fatalf("google login: %v", err)
	}
	user, _ := s.state.User()
	if user.FirstName != "Guido" || user.LastName != "van Rossum" {
		t.Fatalf("expected Guido/van Rossum, got %q/%q", user.FirstName, user.LastName)
	}
}

func TestLoginRefreshesCartCount(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)
	product := s.backend.SeedProduct(types.Product{Name: "Red Shirt", Price: 9.5, Category: "Fashion"})

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.cart.Add(ctx, product.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A new process logging in again sees the server-side cart.
	fresh := s.reopen(t)
	if err := fresh.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if got := fresh.state.CartCount(); got != 3 {
		t.Fatalf("expected cart count 3 after login, got %d", got)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)
	product := s.backend.SeedProduct(types.Product{Name: "Red Shirt", Price: 9.5})

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.cart.Add(ctx, product.ID, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.state.CartCount() != 4 {
		t.Fatalf("expected cart count 4, got %d", s.state.CartCount())
	}

	if err := s.store.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if s.state.IsAuthenticated() {
		t.Fatal("expected logged-out state")
	}
	if s.state.CartCount() != 0 {
		t.Fatalf("expected cart count 0 after logout, got %d", s.state.CartCount())
	}
	if s.state.Role() != types.RoleUser {
		t.Fatalf("expected role reset to user, got %q", s.state.Role())
	}
	for _, key := range storage.SessionKeys {
		value, _ := s.durable.Get(ctx, key)
		if value != "" {
			t.Fatalf("expected %s cleared, got %q", key, value)
		}
	}
}

func TestRehydrateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)
	product := s.backend.SeedProduct(types.Product{Name: "Red Shirt", Price: 9.5})

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.cart.Add(ctx, product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	fresh := s.reopen(t)
	if err := fresh.store.Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}

	if !fresh.state.IsAuthenticated() {
		t.Fatal("expected authenticated state after rehydration")
	}
	if got := fresh.state.Email(); got != "ada@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := fresh.state.CartCount(); got != 2 {
		t.Fatalf("expected cart count 2 after rehydration, got %d", got)
	}
}

func TestRehydrateWithoutTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	if err := s.store.Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if s.state.IsAuthenticated() {
		t.Fatal("no token must mean logged out")
	}
	if s.noticed.Count("session-expired") != 0 {
		t.Fatal("no token must not raise a session-expired notice")
	}
}

func TestRehydrateExpiredTokenClearsSessionOnce(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)

	expired := s.backend.ExpiredTokenFor("ada@example.com")
	if err := s.durable.Set(ctx, storage.KeyToken, expired); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	err := s.store.Rehydrate(ctx)
	if err == nil {
		t.Fatal("expected rehydrate to fail on an expired token")
	}

	if s.state.IsAuthenticated() {
		t.Fatal("expected session cleared")
	}
	token, _ := s.durable.Get(ctx, storage.KeyToken)
	if token != "" {
		t.Fatalf("expected persisted token cleared, got %q", token)
	}
	if got := s.noticed.Count("session-expired"); got != 1 {
		t.Fatalf("expected exactly one session-expired notice, got %d", got)
	}

	// A repeated failure in the same episode stays silent.
	s.store.Expire(ctx)
	if got := s.noticed.Count("session-expired"); got != 1 {
		t.Fatalf("expected deduplicated notice, got %d", got)
	}
}

func TestUnauthorizedCartMutationForcesLogout(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	product := s.backend.SeedProduct(types.Product{Name: "Red Shirt", Price: 9.5})

	// A session whose token the server no longer honors.
	s.state.SetSession(types.User{Email: "ada@example.com", Role: types.RoleUser}, "dead-token")
	s.state.SetCartCount(7)

	err := s.cart.Add(ctx, product.ID, 1)
	if err == nil {
		t.Fatal("expected mutation to fail")
	}
	if !gateway.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized failure, got %v", err)
	}

	if s.state.IsAuthenticated() {
		t.Fatal("expected forced logout")
	}
	if s.state.CartCount() != 0 {
		t.Fatalf("expected cart count reset, got %d", s.state.CartCount())
	}
	if got := s.noticed.Count("session-expired"); got != 1 {
		t.Fatalf("expected exactly one session-expired notice, got %d", got)
	}
}

func TestSessionExpiredNoticeRearmsAfterLogin(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)

	s.store.Expire(ctx)
	if got := s.noticed.Count("session-expired"); got != 1 {
		t.Fatalf("expected one notice, got %d", got)
	}

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.store.Expire(ctx)
	if got := s.noticed.Count("session-expired"); got != 2 {
		t.Fatalf("expected notice to fire again after a successful login, got %d", got)
	}
}

func TestUpdateProfilePersistsAcceptedRecord(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("ada@example.com", "Passw0rd!", "Ada", "Lovelace", types.RoleUser)

	if err := s.store.Login(ctx, "ada@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.store.UpdateProfile(ctx, gateway.ProfileUpdate{Address: "12 Analytical Row", Phone: "5551234567"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	user, _ := s.state.User()
	if user.Address != "12 Analytical Row" || user.Phone != "5551234567" {
		t.Fatalf("unexpected user %+v", user)
	}

	// The persisted snapshot carries the update for the next process.
	fresh := s.reopen(t)
	if err := fresh.store.Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	rehydrated, _ := fresh.state.User()
	if rehydrated.Address != "12 Analytical Row" {
		t.Fatalf("expected updated address after rehydration, got %q", rehydrated.Address)
	}
}

func TestAdminLoginHasNoCart(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.SeedUser("root@example.com", "Passw0rd!", "Root", "Admin", types.RoleAdmin)

	if err := s.store.Login(ctx, "root@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.state.IsAdmin() {
		t.Fatal("expected admin flag")
	}
	if s.state.CartCount() != 0 {
		t.Fatalf("admins carry no cart, got count %d", s.state.CartCount())
	}
}

// noTokenGateway answers logins without a credential token.
type noTokenGateway struct {
	Gateway
}

func (noTokenGateway) Login(ctx context.Context, email, password string) (gateway.AuthResponse, error) {
	return gateway.AuthResponse{Message: "try again later"}, nil
}

func TestLoginWithoutTokenMakesNoStateChange(t *testing.T) {
	ctx := context.Background()
	st := state.New()
	recorder := &notify.Recorder{}
	sess := New(st, noTokenGateway{}, storage.NewMemoryStore(), notify.NewDedup(recorder))

	err := sess.Login(ctx, "ada@example.com", "Passw0rd!")
	if err == nil {
		t.Fatal("expected an error for a token-less auth response")
	}
	if st.IsAuthenticated() {
		t.Fatal("token-less response must not authenticate")
	}
}

func TestValidateSignupRejectsBeforeNetwork(t *testing.T) {
	err := ValidateSignup(gateway.SignupRequest{
		FirstName: "Ada1",
		LastName:  "",
		Email:     "not-an-email",
		Phone:     "123",
		Address:   "x",
		Password:  "short",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	for _, field := range []string{"firstName", "lastName", "email", "phoneNumber", "address", "password"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected a validation error for %s", field)
		}
	}
}

func TestValidateSignupAcceptsWellFormed(t *testing.T) {
	err := ValidateSignup(gateway.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "5551234567",
		Address:   "12 Analytical Row",
		Password:  "Str0ng&Pass",
	})
	if err != nil {
		t.Fatalf("expected valid signup, got %v", err)
	}
}
