package session

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopvine/storefront/internal/gateway"
)

// Signup validation rules, matching what the signup form enforces before
// any request leaves the client.
var (
	nameRe     = regexp.MustCompile(`^[A-Za-z]+$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe    = regexp.MustCompile(`^\d{10}$`)
	addressRe  = regexp.MustCompile(`^[a-zA-Z0-9\s,.'-]{3,}$`)
	passwordRe = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*?&]`),
	}
)

// ValidationErrors maps field names to the reason the value was rejected.
// It is produced entirely client-side; nothing reaches the network while
// it is non-empty.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("invalid signup fields: ")
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + v[field])
	}
	return b.String()
}

// ValidateSignup checks the signup form fields. A nil return means the
// request may be sent.
func ValidateSignup(req gateway.SignupRequest) error {
	errs := ValidationErrors{}

	if !nameRe.MatchString(req.FirstName) {
		errs["firstName"] = "letters only, required"
	}
	if !nameRe.MatchString(req.LastName) {
		errs["lastName"] = "letters only, required"
	}
	if !emailRe.MatchString(req.Email) {
		errs["email"] = "valid email required"
	}
	if !phoneRe.MatchString(req.Phone) {
		errs["phoneNumber"] = "10 digits required"
	}
	if !addressRe.MatchString(req.Address) {
		errs["address"] = "at least 3 characters"
	}
	if !validPassword(req.Password) {
		errs["password"] = "minimum 8 characters with upper, lower, digit, and special"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	for _, re := range passwordRe {
		if !re.MatchString(password) {
			return false
		}
	}
	return true
}
