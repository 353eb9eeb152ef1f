package middleware

import (
	"context"
	"net/http"
	"strings"

	"charityhub/internal/auth"
)

type identityKey string

const authIdentityKey identityKey = "identity"

// AuthJWT rejects requests without a valid bearer credential and stores
// the verified identity in the request context.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			identity, err := auth.Verify(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// ContextWithIdentity stores a verified identity in the context.
func ContextWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, authIdentityKey, identity)
}

// IdentityFromContext returns the verified identity, if any.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	v, ok := ctx.Value(authIdentityKey).(auth.Identity)
	return v, ok
}
