package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// FromContext returns the identity attached by the session middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok
}

// WithIdentity is used by tests to fabricate an authenticated request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// Session resolves the session cookie into an identity when present and valid.
// It never rejects a request; handlers that need auth use RequireSession.
func Session(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if id, err := issuer.Verify(cookie.Value); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests with no verified identity.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects requests whose session does not carry the admin claim.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !id.Admin {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
