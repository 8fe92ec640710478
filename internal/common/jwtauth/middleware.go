package jwtauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"taxi-booking/internal/common/authz"
)

type AuthMiddleware struct {
	tokens *Manager
}

func NewAuthMiddleware(tokens *Manager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Wrap rejects requests without a valid bearer token and stores the caller's
// identity in the request context.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		id, err := am.tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			msg := "invalid JWT token"
			switch {
			case errors.Is(err, ErrMissingToken):
				msg = "empty JWT token"
			case errors.Is(err, ErrExpiredToken):
				msg = "JWT token expired"
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": msg,
				"code":  http.StatusUnauthorized,
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(authz.WithIdentity(r.Context(), id)))
	})
}
