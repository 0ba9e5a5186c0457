package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopvine/storefront/types"
)

// AuthResponse is the normalized result of the signup, login, and
// google-login endpoints. Some backend versions nest the user under a
// "user" key and some return it flat next to the token; both shapes are
// folded here.
type AuthResponse struct {
	Token   string
	User    types.User
	Message string
}

func (a *AuthResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Token   string      `json:"token"`
		Message string      `json:"message"`
		User    *types.User `json:"user"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	a.Token = wire.Token
	a.Message = wire.Message
	if wire.User != nil {
		a.User = *wire.User
		return nil
	}

	// Flat shape: the body itself is the user record.
	var flat types.User
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	a.User = flat
	return nil
}

// SignupRequest carries the fields collected by the signup form.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	Address   string `json:"address"`
	Password  string `json:"password"`
}

// Signup creates a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", "", req, &resp)
	return resp, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", body, &resp)
	return resp, err
}

// GoogleLogin exchanges a Google credential for a token. The credential is
// forwarded opaquely; verification happens server-side.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (AuthResponse, error) {
	body := map[string]string{"credential": credential}
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/google-login", "", body, &resp)
	return resp, err
}

// Profile fetches the authenticated user's record.
func (c *Client) Profile(ctx context.Context, token string) (types.User, error) {
	var user types.User
	err := c.doJSON(ctx, http.MethodGet, "/auth/profile", token, nil, &user)
	return user, err
}

// ProfileUpdate carries the editable profile fields. Empty fields are
// omitted so the backend only touches what was changed.
type ProfileUpdate struct {
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password,omitempty"`
}

// UpdateProfile applies a profile patch and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch ProfileUpdate) (types.User, error) {
	var user types.User
	err := c.doJSON(ctx, http.MethodPut, "/auth/profile", token, patch, &user)
	return user, err
}

// ListUsers fetches every account. Admin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]types.User, error) {
	var users []types.User
	err := c.doJSON(ctx, http.MethodGet, "/auth", token, nil, &users)
	return users, err
}
