package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/saasframework/internal/models"
	"github.com/wolfeidau/saasframework/internal/telemetry"
)

// TokenVerifier resolves a bearer token to the user owning it.
type TokenVerifier interface {
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// PermissionChecker answers fail-closed permission checks.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) bool
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireAuth rejects requests without a valid "Bearer <token>" Authorization
// header with 401. On success the resolved user is available to next through
// UserFromContext.
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			metrics := telemetry.GetMetrics()

			token := extractBearerToken(r)
			if token == "" {
				metrics.RecordGuardDecision(ctx, telemetry.GuardAuth, telemetry.OutcomeMissingToken)
				zerolog.Ctx(ctx).Debug().Str("path", r.URL.Path).Msg("Missing or malformed Authorization header")
				WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			user, err := verifier.GetCurrentUser(ctx, token)
			if err != nil {
				metrics.RecordGuardDecision(ctx, telemetry.GuardAuth, telemetry.OutcomeInvalidToken)
				zerolog.Ctx(ctx).Debug().Err(err).Str("path", r.URL.Path).Msg("Token verification failed")
				WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			metrics.RecordGuardDecision(ctx, telemetry.GuardAuth, telemetry.OutcomeAllowed)
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

// RequirePermission must run inside RequireAuth. It answers 401 when no user
// is attached and 403 when the checker denies permission.
func RequirePermission(checker PermissionChecker, permission string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			metrics := telemetry.GetMetrics()

			user, ok := UserFromContext(ctx)
			if !ok {
				metrics.RecordGuardDecision(ctx, telemetry.GuardPermission, telemetry.OutcomeUnauthenticated)
				WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !checker.HasPermission(ctx, user.UserID, permission) {
				metrics.RecordGuardDecision(ctx, telemetry.GuardPermission, telemetry.OutcomeDenied)
				zerolog.Ctx(ctx).Info().
					Str("user_id", user.UserID).
					Str("permission", permission).
					Msg("Permission denied")
				WriteJSONError(w, http.StatusForbidden, "Permission denied: "+permission)
				return
			}

			metrics.RecordGuardDecision(ctx, telemetry.GuardPermission, telemetry.OutcomeAllowed)
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken returns the token from a "Bearer <token>" header, or ""
// when the header is absent or malformed.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes {"error": msg} with the given status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}
