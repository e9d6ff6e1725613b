package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func createSignedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tokenStr, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return tokenStr
}

func TestInspectToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tokenStr := createSignedToken(t, jwt.MapClaims{
		"sub":      "user-1",
		"iss":      "saas-platform",
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
		"tenantId": "tenant-1",
	})

	claims, err := InspectToken(tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "saas-platform", claims.Issuer)
	require.NotNil(t, claims.IssuedAt)
	require.True(t, claims.IssuedAt.Equal(now))
	require.NotNil(t, claims.ExpiresAt)
	require.False(t, claims.Expired(now))
	require.True(t, claims.Expired(now.Add(2*time.Hour)))
	require.Equal(t, "tenant-1", claims.Claims["tenantId"])
}

func TestInspectToken_bearerPrefix(t *testing.T) {
	tokenStr := createSignedToken(t, jwt.MapClaims{"sub": "user-2"})

	claims, err := InspectToken("Bearer " + tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-2", claims.Subject)
	require.Nil(t, claims.ExpiresAt)
	require.False(t, claims.Expired(time.Now()))
}

func TestInspectToken_opaque(t *testing.T) {
	_, err := InspectToken("session-token-123")
	require.ErrorIs(t, err, ErrOpaqueToken)
}

func TestInspectToken_malformed(t *testing.T) {
	_, err := InspectToken("a.b.c")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrOpaqueToken)
}
