// Package storage persists the session snapshot (token, user data, role,
// email) across process restarts. It is the durable slot the browser
// front-end kept in localStorage; writes are last-writer-wins and cross-
// process consistency is not guaranteed.
package storage

import "context"

// Keys of the persisted session snapshot. They are always written and
// cleared together.
const (
	KeyToken    = "token"
	KeyUserData = "userData"
	KeyRole     = "role"
	KeyEmail    = "loggedInUserEmail"
)

// SessionKeys lists every persisted key, in write order.
var SessionKeys = []string{KeyToken, KeyUserData, KeyRole, KeyEmail}

// Store defines the durable key-value operations used by the session
// store. Get returns an empty string, not an error, when a key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Clear removes every session key from the given store.
func Clear(ctx context.Context, s Store) error {
	return s.Delete(ctx, SessionKeys...)
}
