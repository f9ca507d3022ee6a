package auth

import (
	"context"
	"net/http"

	"github.com/brainvault/brainvault/internal/api/respond"
)

type contextKey string

const userKey contextKey = "brainvault.user"

// Middleware authenticates requests and stores the resolved user in the
// request context. Public routes are registered outside this middleware.
func Middleware(az Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, err := ExtractAPIKey(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			info, err := az.Authorize(r.Context(), apiKey)
			if err != nil {
				respond.WriteUnauthorized(w, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), info)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, info *UserInfo) context.Context {
	return context.WithValue(ctx, userKey, info)
}

// UserFromContext returns the authenticated user, or nil when the request
// did not pass through the middleware.
func UserFromContext(ctx context.Context) *UserInfo {
	info, _ := ctx.Value(userKey).(*UserInfo)
	return info
}
