package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by InspectToken when the token is not a JWT.
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenClaims is the decoded, unverified content of a bearer token.
type TokenClaims struct {
	Subject   string
	Issuer    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	Claims    map[string]any
}

// Expired reports whether the exp claim is in the past. Tokens without an exp
// claim never expire from the client's point of view.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// InspectToken decodes a bearer token's claims WITHOUT verifying its
// signature. It is a debugging aid, validity is decided by the remote service.
func InspectToken(token string) (*TokenClaims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if strings.Count(token, ".") != 2 {
		return nil, ErrOpaqueToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	out := &TokenClaims{Claims: claims}
	out.Subject, _ = claims.GetSubject()
	out.Issuer, _ = claims.GetIssuer()

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}

	return out, nil
}
