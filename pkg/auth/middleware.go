package auth

import (
	"context"
	"net/http"
)

type contextKey string

const (
	// ContextKeyPrincipal is the context key for the authenticated principal
	ContextKeyPrincipal contextKey = "auth_principal"
)

// ExtractKey reads the API key from "Authorization: Bearer <key>" or the
// X-API-Key header.
func ExtractKey(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		key, err := ParseAuthHeader(header)
		return key, err == nil
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, true
	}
	return "", false
}

// Middleware returns an HTTP middleware that enforces authentication. When
// the store holds no keys every request is let through.
func (ks *KeyStore) Middleware(requiredPermission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ks.Len() == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key, ok := ExtractKey(r)
			if !ok {
				writeError(w, "missing or malformed API key", http.StatusUnauthorized)
				return
			}

			principal, err := ks.Authenticate(key)
			if err != nil {
				writeError(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			if !HasPermission(principal.Role, requiredPermission) {
				writeError(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the principal from the request context
func GetPrincipal(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(ContextKeyPrincipal).(*Principal)
	return p, ok
}
