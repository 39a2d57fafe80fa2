package httpx

import (
	"context"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and returns the subject and token id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID, tokenID string, err error)
}

func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
				return
			}

			userID, tokenID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session", nil)
				return
			}

			recordUser(r.Context(), userID)
			ctx := ContextWithUser(r.Context(), userID, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
