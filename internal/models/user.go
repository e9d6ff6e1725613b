package models

import (
	"encoding/json"
	"time"
)

// User is the identity resolved by the remote authentication service.
// The service is the source of truth; nothing here is validated client side.
type User struct {
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	TenantID  string     `json:"tenantId"`
	Roles     []string   `json:"roles,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// UnmarshalJSON accepts both "userId" and "id" for the user identifier,
// older deployments of the service only send "id".
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		ID string `json:"id"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if u.UserID == "" {
		u.UserID = aux.ID
	}

	return nil
}
