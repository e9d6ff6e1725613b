package rbac

import (
	"fmt"

	"github.com/wolfeidau/saasframework/internal/client"
)

// Operations reported in RoleAssignError.Op.
const (
	OpAssign = "assign"
	OpRemove = "remove"
)

// RoleAssignError reports a failed role assignment or removal.
type RoleAssignError struct {
	Op      string
	UserID  string
	RoleID  string
	Message string
	Err     error
}

func (e *RoleAssignError) Error() string {
	return fmt.Sprintf("failed to %s role %s for user %s: %s", e.Op, e.RoleID, e.UserID, e.Message)
}

func (e *RoleAssignError) Unwrap() error {
	return e.Err
}

func newRoleAssignError(op, userID, roleID string, err error) *RoleAssignError {
	return &RoleAssignError{
		Op:      op,
		UserID:  userID,
		RoleID:  roleID,
		Message: client.RemoteMessage(err),
		Err:     err,
	}
}

// RoleCreateError reports a failed role definition.
type RoleCreateError struct {
	Name    string
	Message string
	Err     error
}

func (e *RoleCreateError) Error() string {
	if e.Name == "" {
		return "failed to create role: " + e.Message
	}
	return fmt.Sprintf("failed to create role %s: %s", e.Name, e.Message)
}

func (e *RoleCreateError) Unwrap() error {
	return e.Err
}

func newRoleCreateError(name string, err error) *RoleCreateError {
	return &RoleCreateError{Name: name, Message: client.RemoteMessage(err), Err: err}
}

// LookupError reports a failed read from the RBAC service.
type LookupError struct {
	Resource string
	Message  string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.Resource, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func newLookupError(resource string, err error) *LookupError {
	return &LookupError{Resource: resource, Message: client.RemoteMessage(err), Err: err}
}
