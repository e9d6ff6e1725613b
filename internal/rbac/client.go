package rbac

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/saasframework/internal/client"
	"github.com/wolfeidau/saasframework/internal/models"
)

// Client talks to the remote RBAC service.
type Client struct {
	api *client.Client
}

// NewClient creates an authorization client. cfg.BaseURL is the RBAC service
// root, for example https://platform.example.com/api/v2/rbac.
func NewClient(cfg client.Config) (*Client, error) {
	api, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create rbac client: %w", err)
	}
	return &Client{api: api}, nil
}

type checkPermissionRequest struct {
	UserID     string `json:"userId"`
	Permission string `json:"permission"`
}

type checkPermissionResponse struct {
	HasPermission bool `json:"hasPermission"`
}

type createRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type userRoleRequest struct {
	UserID string `json:"userId"`
	RoleID string `json:"roleId"`
}

// HasPermission reports whether userID holds permission. It is fail-closed:
// any transport error, non-2xx status or undecodable body yields false.
// Results are never cached.
func (c *Client) HasPermission(ctx context.Context, userID, permission string) bool {
	if userID == "" || permission == "" {
		return false
	}

	var resp checkPermissionResponse
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/check-permission",
		Body:   checkPermissionRequest{UserID: userID, Permission: permission},
	}, &resp)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).
			Str("user_id", userID).
			Str("permission", permission).
			Msg("permission check failed, denying")
		return false
	}

	return resp.HasPermission
}

// GetUserRoles returns the roles assigned to userID. A failed lookup is
// returned as *LookupError so callers can tell it apart from a user that
// genuinely has no roles, which yields an empty slice and a nil error.
func (c *Client) GetUserRoles(ctx context.Context, userID string) ([]models.Role, error) {
	if userID == "" {
		return nil, &LookupError{Resource: "user roles", Message: "user ID is required"}
	}

	var roles []models.Role
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   "/users/" + url.PathEscape(userID) + "/roles",
	}, &roles)
	if err != nil {
		return nil, newLookupError("user roles", err)
	}

	if roles == nil {
		roles = []models.Role{}
	}

	return roles, nil
}

// CreateRole defines a new role from role's name, description and
// permissions, returning the role as stored by the remote service.
func (c *Client) CreateRole(ctx context.Context, role models.Role) (*models.Role, error) {
	if role.Name == "" {
		return nil, &RoleCreateError{Message: "role name is required"}
	}

	var created models.Role
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/roles",
		Body: createRoleRequest{
			Name:        role.Name,
			Description: role.Description,
			Permissions: role.Permissions,
		},
	}, &created)
	if err != nil {
		return nil, newRoleCreateError(role.Name, err)
	}

	return &created, nil
}

// AssignRole grants roleID to userID.
func (c *Client) AssignRole(ctx context.Context, userID, roleID string) error {
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/user-roles",
		Body:   userRoleRequest{UserID: userID, RoleID: roleID},
	}, nil)
	if err != nil {
		return newRoleAssignError(OpAssign, userID, roleID, err)
	}
	return nil
}

// RemoveRole revokes roleID from userID.
func (c *Client) RemoveRole(ctx context.Context, userID, roleID string) error {
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodDelete,
		Path:   "/users/" + url.PathEscape(userID) + "/roles/" + url.PathEscape(roleID),
	}, nil)
	if err != nil {
		return newRoleAssignError(OpRemove, userID, roleID, err)
	}
	return nil
}

// GetRoles lists every role defined for the tenant.
func (c *Client) GetRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := c.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/roles"}, &roles)
	if err != nil {
		return nil, newLookupError("roles", err)
	}

	if roles == nil {
		roles = []models.Role{}
	}

	return roles, nil
}

// GetPermissions lists the permissions roles can grant.
func (c *Client) GetPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	err := c.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/permissions"}, &perms)
	if err != nil {
		return nil, newLookupError("permissions", err)
	}

	if perms == nil {
		perms = []models.Permission{}
	}

	return perms, nil
}
