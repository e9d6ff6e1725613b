package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wolfeidau/saasframework/internal/client"
	"github.com/wolfeidau/saasframework/internal/models"
)

// Client talks to the remote authentication service.
type Client struct {
	api *client.Client
}

// NewClient creates an authentication client. cfg.BaseURL is the auth service
// root, for example https://platform.example.com/api/v2/auth.
func NewClient(cfg client.Config) (*Client, error) {
	api, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return &Client{api: api}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// verifyResponse is the /verify body. An absent valid field is accepted,
// only an explicit false rejects the token.
type verifyResponse struct {
	Valid *bool        `json:"valid"`
	User  *models.User `json:"user"`
}

func (r *verifyResponse) rejected() bool {
	return r.Valid != nil && !*r.Valid
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session. Each call may create a new
// session on the remote service.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   loginRequest{Email: email, Password: password},
	}, &session)
	if err != nil {
		return nil, newAuthError(OpLogin, err)
	}

	if session.Token == "" {
		return nil, &AuthError{Op: OpLogin, Message: "response did not include a token"}
	}

	return &session, nil
}

// VerifyToken reports whether the remote service accepts token. It never
// fails: transport errors, non-2xx responses, undecodable bodies and an
// explicit "valid": false are reported as false.
func (c *Client) VerifyToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	var resp verifyResponse
	err := c.api.Do(ctx, client.Request{
		Method:      http.MethodGet,
		Path:        "/verify",
		BearerToken: token,
	}, &resp)

	return err == nil && !resp.rejected()
}

// GetCurrentUser resolves the user owning token.
func (c *Client) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, &AuthError{Op: OpVerify, Message: invalidTokenMessage}
	}

	var resp verifyResponse
	err := c.api.Do(ctx, client.Request{
		Method:      http.MethodGet,
		Path:        "/verify",
		BearerToken: token,
	}, &resp)
	if err != nil {
		return nil, &AuthError{Op: OpVerify, Message: invalidTokenMessage, Err: err}
	}

	if resp.rejected() {
		return nil, &AuthError{Op: OpVerify, Message: invalidTokenMessage}
	}

	if resp.User == nil {
		return nil, &AuthError{Op: OpVerify, Message: "response did not include a user"}
	}

	return resp.User, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", &AuthError{Op: OpRefresh, Message: "refresh token is required"}
	}

	var resp refreshResponse
	err := c.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/refresh",
		Body:   refreshRequest{RefreshToken: refreshToken},
	}, &resp)
	if err != nil {
		return "", newAuthError(OpRefresh, err)
	}

	if resp.Token == "" {
		return "", &AuthError{Op: OpRefresh, Message: "response did not include a token"}
	}

	return resp.Token, nil
}

// Logout invalidates token on the remote service. It returns false when the
// service could not be reached or refused the request.
func (c *Client) Logout(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	err := c.api.Do(ctx, client.Request{
		Method:      http.MethodPost,
		Path:        "/logout",
		BearerToken: token,
	}, nil)

	return err == nil
}
