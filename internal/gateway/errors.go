package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// genericFailure is used when a failure response carries no usable message.
const genericFailure = "request failed"

// RequestError is returned when the backend responds with a non-success
// status. Message is the server-provided explanation when one was present.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unauthorized reports whether the failure indicates a missing, expired,
// or rejected credential.
func (e *RequestError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err is a RequestError for a rejected
// credential. Callers use it to route failures into the forced-logout path.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Unauthorized()
}

// newRequestError extracts the server's message from a failure body.
// Error payloads carry a "message" field, sometimes "error"; a malformed
// body falls back to a generic message.
func newRequestError(status int, body []byte) *RequestError {
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}

	message := genericFailure
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Err != "":
			message = payload.Err
		}
	}
	return &RequestError{Status: status, Message: message}
}
