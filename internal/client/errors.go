package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const unknownErrorMessage = "Unknown error"

// ErrResponseTooLarge is returned when a response body exceeds 1MiB.
var ErrResponseTooLarge = errors.New("response too large")

// APIError is returned when the remote service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a response body, preferring the
// "message" field, then "error", then a generic message.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	msg := unknownErrorMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}

	return &APIError{StatusCode: status, Message: msg}
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a remote response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the remote service.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// RemoteMessage returns the remote message carried by err, or err.Error()
// when the failure happened before a response was received.
func RemoteMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
