package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "userId field",
			input:    `{"userId":"u-1","email":"admin@testcompany.com","tenantId":"t-1"}`,
			expected: "u-1",
		},
		{
			name:     "id field",
			input:    `{"id":"u-2","email":"admin@testcompany.com","tenantId":"t-1"}`,
			expected: "u-2",
		},
		{
			name:     "userId wins over id",
			input:    `{"id":"u-2","userId":"u-3"}`,
			expected: "u-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u User
			require.NoError(t, json.Unmarshal([]byte(tt.input), &u))
			require.Equal(t, tt.expected, u.UserID)
		})
	}
}

func TestSession_decodesUser(t *testing.T) {
	var s Session
	err := json.Unmarshal([]byte(`{"token":"abc","user":{"id":"u-1","email":"a@b.c","tenantId":"t-1","roles":["admin"]}}`), &s)
	require.NoError(t, err)
	require.Equal(t, "abc", s.Token)
	require.Equal(t, "u-1", s.User.UserID)
	require.Equal(t, []string{"admin"}, s.User.Roles)
	require.Nil(t, s.ExpiresAt)
}
