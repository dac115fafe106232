package middleware

import (
	"context"
	"net/http"
	"strings"

	"pine-rivers/rangekiosk/internal/session"
)

const sessionClaimsKey ctxKey = "session_claims"

// SessionAuthMiddleware protects admin endpoints with the bearer token
// issued at unlock
func SessionAuthMiddleware(issuer *session.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Unlock the kiosk first", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized. Invalid session token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionClaims extracts the verified token claims placed by
// SessionAuthMiddleware
func SessionClaims(ctx context.Context) (*session.TokenClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*session.TokenClaims)
	return claims, ok
}
