// Package webapp serves the demo web application protected by the request
// guards.
package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/saasframework/internal/client"
	httpmiddleware "github.com/wolfeidau/saasframework/internal/http"
	"github.com/wolfeidau/saasframework/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AdminPermission guards the admin route.
const AdminPermission = "admin.access"

const authUnavailableMessage = "authentication service unavailable"

// Authenticator is the part of the auth client the web app needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Options configures the web application handler.
type Options struct {
	Auth        Authenticator
	Permissions httpmiddleware.PermissionChecker
	Logger      zerolog.Logger

	// CORSOrigins lists the origins allowed to call the API from a browser.
	// Empty disables CORS headers.
	CORSOrigins []string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// NewHandler returns the routed and instrumented web application.
func NewHandler(opts Options) http.Handler {
	requireAuth := httpmiddleware.RequireAuth(opts.Auth)
	requireAdmin := httpmiddleware.RequirePermission(opts.Permissions, AdminPermission)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("POST /login", loginHandler(opts.Auth))
	mux.Handle("GET /profile", httpmiddleware.Chain(http.HandlerFunc(profileHandler), requireAuth))
	mux.Handle("GET /admin", httpmiddleware.Chain(http.HandlerFunc(adminHandler), requireAuth, requireAdmin))

	var handler http.Handler = mux
	if len(opts.CORSOrigins) > 0 {
		handler = withCORS(opts.CORSOrigins, handler)
	}

	handler = httpmiddleware.Chain(handler,
		httpmiddleware.RequestIDMiddleware(),
		httpmiddleware.AccessLogMiddleware(opts.Logger),
	)

	return otelhttp.NewHandler(handler, "webapp")
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	httpmiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func loginHandler(authn Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpmiddleware.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		session, err := authn.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("Login failed, auth service unreachable")
				httpmiddleware.WriteJSONError(w, http.StatusServiceUnavailable, authUnavailableMessage)
				return
			}

			zerolog.Ctx(r.Context()).Info().Err(err).Str("email", req.Email).Msg("Login rejected")
			httpmiddleware.WriteJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}

		httpmiddleware.WriteJSON(w, http.StatusOK, session)
	})
}

func profileHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := httpmiddleware.UserFromContext(r.Context())
	httpmiddleware.WriteJSON(w, http.StatusOK, profileResponse{
		User:    user,
		Message: "Authenticated profile access",
	})
}

func adminHandler(w http.ResponseWriter, _ *http.Request) {
	httpmiddleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Admin area"})
}

func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", httpmiddleware.RequestIDHeader},
		ExposedHeaders: []string{httpmiddleware.RequestIDHeader},
	})
	return middleware.Handler(h)
}
