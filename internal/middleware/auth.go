package middleware

import (
	"net/http"
	"strings"

	"github.com/user/mysea-back/internal/auth"
	"github.com/user/mysea-back/internal/handlers"
)

func Auth(tokenService *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.RespondUnauthorized(w, "Missing authorization header")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				handlers.RespondUnauthorized(w, "Invalid authorization header format")
				return
			}

			userID, err := tokenService.Verify(token)
			if err != nil {
				handlers.RespondUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), userID)))
		})
	}
}
