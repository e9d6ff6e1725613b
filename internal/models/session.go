package models

import "time"

// Session is returned by a successful login and held by the caller.
// Expiry is not enforced client side, the remote service decides validity.
type Session struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	User         User       `json:"user"`
}
