package types

// User represents an account as the backend reports it.
// It contains identity, contact, and authorization metadata.
type User struct {
	// ID is the unique identifier assigned by the backend.
	ID string `json:"_id"`

	// Email is the user's email address. The backend guarantees it is
	// present on every valid profile payload.
	Email string `json:"email"`

	// FirstName is the user's given name. May be empty on accounts
	// created through the Google login flow, which only carry FullName.
	FirstName string `json:"firstname"`

	// LastName is the user's family name.
	LastName string `json:"lastname"`

	// FullName is a combined display name set by some login providers.
	// When FirstName/LastName are empty it is the authoritative source
	// for the name split.
	FullName string `json:"fullName,omitempty"`

	// Role indicates the user's authorization level within the store
	// ("admin" or "user").
	Role string `json:"role"`

	// Address is the user's shipping address.
	Address string `json:"address,omitempty"`

	// Phone is the user's contact number.
	Phone string `json:"phone,omitempty"`

	// Avatar is the path of the user's profile image, relative to the
	// backend root. Empty when the user has no avatar.
	Avatar string `json:"avatar,omitempty"`
}

// Roles recognized by the backend.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
