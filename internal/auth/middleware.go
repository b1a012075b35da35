package auth

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthContextKey is the key for storing AuthContext in request context
	AuthContextKey ContextKey = "authContext"
)

// Middleware creates an HTTP middleware that extracts and injects authentication context.
// This middleware:
// 1. Extracts the token from the Authorization header or the auth cookie
// 2. Verifies the token signature and reads the employee ID from the subject
// 3. Looks up the employee in the directory
// 4. Injects the resulting auth context into the request
//
// If any step fails (missing token, invalid token, employee not found),
// the request proceeds without auth context. Handlers should check for context availability.
//
// This design allows:
// - Public endpoints (no auth required)
// - Protected endpoints (check for context)
// - Optional auth endpoints (use context if available)
func Middleware(authService *AuthService, verifier *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)

			// No credentials at all, continue without auth context
			if token == "" {
				slog.Debug("no auth token provided")
				next.ServeHTTP(w, r)
				return
			}

			employeeID, err := verifier.ExtractEmployeeID(token)
			if err != nil {
				slog.Warn("failed to verify auth token",
					"error", err,
					"token_length", len(token),
				)
				next.ServeHTTP(w, r)
				return
			}

			authCtx, err := authService.ResolveEmployee(r.Context(), employeeID)
			if err != nil {
				slog.Warn("failed to resolve employee for auth token",
					"employee_id", employeeID,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
			r = r.WithContext(ctx)

			slog.Debug("auth context injected successfully",
				"employee_id", employeeID,
			)

			next.ServeHTTP(w, r)
		})
	}
}

// GetAuthContext extracts the AuthContext from a request context.
// Returns nil if no auth context is available (request had no valid token).
//
// Usage in handlers:
//
//	authCtx := auth.GetAuthContext(r.Context())
//	if authCtx == nil {
//	    // Handle unauthorized request
//	}
//	employeeID := authCtx.EmployeeID
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// RequireAuth returns a middleware that requires authentication.
// If no auth context is found, returns 401 Unauthorized.
// This middleware should be applied to protected endpoints.
//
// Usage:
//
//	mux.Handle("POST /api/protected", auth.RequireAuth(authService, verifier)(handler))
func RequireAuth(authService *AuthService, verifier *TokenVerifier) func(http.Handler) http.Handler {
	// Create the auth middleware once, not on every request
	authMiddleware := Middleware(authService, verifier)

	return func(next http.Handler) http.Handler {
		return authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				slog.Warn("authentication required but not provided",
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
