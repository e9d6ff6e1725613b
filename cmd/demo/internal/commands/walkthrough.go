package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/saasframework/internal/logger"
	"github.com/wolfeidau/saasframework/internal/models"
)

// walkthroughAuth is the part of the auth client the walkthrough drives.
type walkthroughAuth interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	VerifyToken(ctx context.Context, token string) bool
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, token string) bool
}

// walkthroughRBAC is the part of the RBAC client the walkthrough drives.
type walkthroughRBAC interface {
	HasPermission(ctx context.Context, userID, permission string) bool
	GetUserRoles(ctx context.Context, userID string) ([]models.Role, error)
	CreateRole(ctx context.Context, role models.Role) (*models.Role, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
	GetRoles(ctx context.Context) ([]models.Role, error)
	GetPermissions(ctx context.Context) ([]models.Permission, error)
}

type WalkthroughCmd struct {
	ClientFlags `embed:""`

	Email       string   `help:"account to log in as" default:"admin@testcompany.com" env:"SAAS_DEMO_EMAIL"`
	Password    string   `help:"account password" env:"SAAS_DEMO_PASSWORD" required:""`
	Permissions []string `name:"permission" help:"permissions to check" default:"admin.access,posts.create"`
	CreateRole  string   `help:"name of a role to define for the tenant"`
	RolePerms   []string `name:"create-role-permission" help:"permissions granted by the created role"`
	AssignRole  string   `help:"role ID to assign to the logged in user"`
	RemoveRole  string   `help:"role ID to remove from the logged in user"`
	Catalog     bool     `help:"list every role and permission defined for the tenant"`
	Refresh     bool     `help:"exchange the refresh token for a new access token"`
	Logout      bool     `help:"log out at the end of the walkthrough"`
}

func (c *WalkthroughCmd) Run(ctx context.Context, globals *Globals) error {
	logger.SetGlobal(logger.Setup(globals.Debug))
	ctx = log.Logger.WithContext(ctx)

	authClient, rbacClient, err := c.newClients()
	if err != nil {
		return err
	}

	return c.walk(ctx, os.Stdout, authClient, rbacClient)
}

func (c *WalkthroughCmd) walk(ctx context.Context, w io.Writer, authn walkthroughAuth, authz walkthroughRBAC) error {
	n := 0
	step := func(format string, args ...any) {
		n++
		fmt.Fprintf(w, "%d. "+format+"\n", append([]any{n}, args...)...)
	}

	step("Logging in as %s", c.Email)
	session, err := authn.Login(ctx, c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   token: %s\n", truncate(session.Token, 20))

	step("Verifying token")
	fmt.Fprintf(w, "   valid: %t\n", authn.VerifyToken(ctx, session.Token))

	step("Fetching current user")
	user, err := authn.GetCurrentUser(ctx, session.Token)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   user: %s (%s) tenant=%s\n", user.Email, user.UserID, user.TenantID)

	step("Checking permissions")
	for _, perm := range c.Permissions {
		fmt.Fprintf(w, "   %s: %t\n", perm, authz.HasPermission(ctx, user.UserID, perm))
	}

	if c.CreateRole != "" {
		step("Creating role %s", c.CreateRole)
		role, err := authz.CreateRole(ctx, models.Role{Name: c.CreateRole, Permissions: c.RolePerms})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "   id: %s (%d permissions)\n", role.ID, len(role.Permissions))
	}

	if c.AssignRole != "" {
		step("Assigning role %s", c.AssignRole)
		if err := authz.AssignRole(ctx, user.UserID, c.AssignRole); err != nil {
			return err
		}
	}

	if c.RemoveRole != "" {
		step("Removing role %s", c.RemoveRole)
		if err := authz.RemoveRole(ctx, user.UserID, c.RemoveRole); err != nil {
			return err
		}
	}

	step("Listing roles")
	roles, err := authz.GetUserRoles(ctx, user.UserID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		fmt.Fprintln(w, "   (none)")
	}
	for _, role := range roles {
		fmt.Fprintf(w, "   - %s (%d permissions)\n", role.Name, len(role.Permissions))
	}

	if c.Catalog {
		if err := printCatalog(ctx, w, authz, step); err != nil {
			return err
		}
	}

	token := session.Token
	if c.Refresh {
		step("Refreshing token")
		token, err = authn.RefreshToken(ctx, session.RefreshToken)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "   token: %s\n", truncate(token, 20))
	}

	if c.Logout {
		step("Logging out")
		fmt.Fprintf(w, "   logged out: %t\n", authn.Logout(ctx, token))
	}

	return nil
}

func printCatalog(ctx context.Context, w io.Writer, authz walkthroughRBAC, step func(string, ...any)) error {
	step("Listing tenant roles")
	roles, err := authz.GetRoles(ctx)
	if err != nil {
		return err
	}
	for _, role := range roles {
		fmt.Fprintf(w, "   - %s: %s\n", role.Name, role.Description)
	}

	step("Listing tenant permissions")
	perms, err := authz.GetPermissions(ctx)
	if err != nil {
		return err
	}
	for _, perm := range perms {
		fmt.Fprintf(w, "   - %s (%s on %s)\n", perm.Name, perm.Action, perm.Resource)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
