// Package session owns the client-held identity: the user record, the
// bearer token, and the role. It persists the session to durable storage,
// rebuilds it at startup, and forces a logout the moment the backend
// rejects the credential.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopvine/storefront/internal/gateway"
	"github.com/shopvine/storefront/internal/notify"
	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/internal/storage"
	"github.com/shopvine/storefront/types"
)

// Notice IDs emitted by the store. Deduplication happens per ID.
const (
	noticeSessionExpired = "session-expired"
	noticeLogout         = "logout-success"
)

// ErrSessionExpired is returned when rehydration or a profile refresh
// finds the persisted token dead. The session has already been cleared
// when callers see it.
var ErrSessionExpired = errors.New("session expired")

// ErrNoToken is returned when an auth endpoint answered without a
// credential token. The store makes no state change in that case.
var ErrNoToken = errors.New("no token in auth response")

// Gateway is the slice of backend operations the session store needs.
type Gateway interface {
	Signup(ctx context.Context, req gateway.SignupRequest) (gateway.AuthResponse, error)
	Login(ctx context.Context, email, password string) (gateway.AuthResponse, error)
	GoogleLogin(ctx context.Context, credential string) (gateway.AuthResponse, error)
	Profile(ctx context.Context, token string) (types.User, error)
	UpdateProfile(ctx context.Context, token string, patch gateway.ProfileUpdate) (types.User, error)
}

// CartSync is implemented by the cart synchronizer. The store triggers a
// refresh after login/rehydration and a reset on logout.
type CartSync interface {
	Refresh(ctx context.Context) error
	Reset()
}

// Store is the session store. All mutations of the session fields in the
// shared state go through it.
type Store struct {
	state   *state.State
	gw      Gateway
	durable storage.Store
	notices *notify.Dedup
	cart    CartSync
}

func New(st *state.State, gw Gateway, durable storage.Store, notices *notify.Dedup) *Store {
	return &Store{state: st, gw: gw, durable: durable, notices: notices}
}

// BindCart wires the cart synchronizer. Must be called before any
// operation that follows a login; the app wiring does this once.
func (s *Store) BindCart(cart CartSync) {
	s.cart = cart
}

// Rehydrate rebuilds the session from the persisted snapshot. A missing
// token means a logged-out session and is not an error. A dead token
// clears the session, storage included, and emits one session-expired
// notice for the episode.
func (s *Store) Rehydrate(ctx context.Context) error {
	token, err := s.durable.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("session: read snapshot: %w", err)
	}
	if token == "" {
		return nil
	}

	// Best-effort local check: when the opaque token happens to be a
	// JWT with an elapsed expiry, skip the doomed round trip.
	if tokenExpired(token) {
		s.Expire(ctx)
		return ErrSessionExpired
	}

	user, err := s.gw.Profile(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Expire(ctx)
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if user.Email == "" {
		s.Expire(ctx)
		return fmt.Errorf("%w: profile payload missing email", ErrSessionExpired)
	}

	if err := s.establish(ctx, user, token); err != nil {
		return err
	}

	// During rehydration a failing cart fetch means the token is not
	// actually usable; treat it like any other auth failure.
	if !s.state.IsAdmin() && s.cart != nil {
		if err := s.cart.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Expire(ctx)
			return fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
	}
	return nil
}

// Login authenticates with email and password and establishes the session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, resp)
}

// LoginWithGoogle authenticates with a Google credential and establishes
// the session.
func (s *Store) LoginWithGoogle(ctx context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return errors.New("session: google credential is required")
	}
	resp, err := s.gw.GoogleLogin(ctx, credential)
	if err != nil {
		return err
	}
	return s.adopt(ctx, resp)
}

// Signup validates the form client-side, then creates the account. It does
// not establish a session; the caller logs in afterwards.
func (s *Store) Signup(ctx context.Context, req gateway.SignupRequest) (gateway.AuthResponse, error) {
	if err := ValidateSignup(req); err != nil {
		return gateway.AuthResponse{}, err
	}
	return s.gw.Signup(ctx, req)
}

// adopt establishes a session from an auth response. A response without a
// token leaves all state untouched.
func (s *Store) adopt(ctx context.Context, resp gateway.AuthResponse) error {
	if resp.Token == "" {
		if resp.Message != "" {
			return fmt.Errorf("%w: %s", ErrNoToken, resp.Message)
		}
		return ErrNoToken
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := s.establish(ctx, resp.User, resp.Token); err != nil {
		return err
	}

	// Post-login cart refresh. Unlike rehydration, a failure here does
	// not invalidate the fresh session; the mirror just stays at zero.
	if s.cart != nil {
		if s.state.IsAdmin() {
			s.cart.Reset()
		} else if err := s.cart.Refresh(ctx); err != nil {
			s.state.SetCartCount(0)
		}
	}
	return nil
}

// establish normalizes the user record, updates the shared state, and
// persists the snapshot. The session-expired episode ends here.
func (s *Store) establish(ctx context.Context, user types.User, token string) error {
	user = normalizeName(user)
	s.state.SetSession(user, token)
	s.notices.Reset(noticeSessionExpired)
	return s.persist(ctx, user, token)
}

func (s *Store) persist(ctx context.Context, user types.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: marshal user: %w", err)
	}

	role := user.Role
	if role == "" {
		role = types.RoleUser
	}
	pairs := [][2]string{
		{storage.KeyToken, token},
		{storage.KeyUserData, string(data)},
		{storage.KeyRole, role},
		{storage.KeyEmail, user.Email},
	}
	for _, pair := range pairs {
		if err := s.durable.Set(ctx, pair[0], pair[1]); err != nil {
			return fmt.Errorf("session: persist %s: %w", pair[0], err)
		}
	}
	return nil
}

// Logout clears the session, the persisted snapshot, and the cart mirror.
// No backend call is involved.
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.notices.Notice(noticeLogout, "Logged out successfully")
	return err
}

// Expire runs the forced-logout path after an authentication failure. The
// session-expired notice fires at most once until the next successful
// login or rehydration.
func (s *Store) Expire(ctx context.Context) {
	_ = s.clear(ctx)
	s.notices.Notice(noticeSessionExpired, "Session expired. Please login again.")
}

func (s *Store) clear(ctx context.Context) error {
	s.state.ClearSession()
	if s.cart != nil {
		s.cart.Reset()
	}
	if err := storage.Clear(ctx, s.durable); err != nil {
		return fmt.Errorf("session: clear snapshot: %w", err)
	}
	return nil
}

// UpdateProfile sends a profile patch and replaces the local user record
// with the backend's accepted version.
func (s *Store) UpdateProfile(ctx context.Context, patch gateway.ProfileUpdate) error {
	token := s.state.Token()
	if token == "" {
		return ErrSessionExpired
	}

	user, err := s.gw.UpdateProfile(ctx, token, patch)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			s.Expire(ctx)
		}
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	user = normalizeName(user)
	s.state.SetSession(user, token)
	return s.persist(ctx, user, token)
}

// normalizeName fills FirstName/LastName from FullName when both are
// missing, splitting on the first whitespace boundary. Accounts created
// through the Google flow only carry the combined name.
func normalizeName(user types.User) types.User {
	if user.FirstName == "" && user.LastName == "" && user.FullName != "" {
		first, rest, _ := strings.Cut(strings.TrimSpace(user.FullName), " ")
		user.FirstName = first
		user.LastName = strings.TrimSpace(rest)
	}
	return user
}

// tokenExpired reports whether the token is a JWT whose expiry has passed.
// Opaque or claim-less tokens report false; the backend stays the
// authority on their validity.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
