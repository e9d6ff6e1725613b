package auth

import (
	"fmt"

	"github.com/wolfeidau/saasframework/internal/client"
)

// Operations reported in AuthError.Op.
const (
	OpLogin   = "login"
	OpVerify  = "verify"
	OpRefresh = "refresh"
)

const invalidTokenMessage = "Invalid or expired token"

// AuthError reports a failed authentication call. Message carries the remote
// service's error message when one was returned.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(op string, err error) *AuthError {
	return &AuthError{Op: op, Message: client.RemoteMessage(err), Err: err}
}
