// Package middleware provides HTTP middleware for the sage API.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nvillagra/sage/internal/api/ctxkeys"
	pkgauth "github.com/nvillagra/sage/pkg/auth"
)

// HistoryAuth gates the history endpoint with a Bearer JWT when a secret is
// configured. An empty secret disables the gate entirely, keeping local
// setups zero-config.
//
// Flow with a secret:
//  1. Read "Authorization: Bearer <token>" header
//  2. Reject if missing or not Bearer scheme → 401
//  3. Parse + validate JWT → 401 on invalid/expired
//  4. Require the history:read scope → 403 otherwise
//  5. Inject ctxkeys.Subject and ctxkeys.Scope, call next handler
func HistoryAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
				return
			}

			claims, err := pkgauth.ParseToken(tokenString, secret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if claims.Scope != pkgauth.ScopeHistoryRead {
				writeAuthError(w, http.StatusForbidden, "insufficient scope")
				return
			}

			ctx := r.Context()
			ctx = ctxkeys.WithValue(ctx, ctxkeys.Subject, claims.Subject)
			ctx = ctxkeys.WithValue(ctx, ctxkeys.Scope, claims.Scope)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns empty string if the header is missing, uses the wrong scheme, or
// carries an empty token.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	// Must start with "Bearer " (case-sensitive per RFC 7235)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
