package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"authprobe/internal/utils"
)

// Auth requires a valid "Bearer <token>" header and stores the user id in the
// request context.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.SendJSONError(w, "Missing token", http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(tokenString, "Bearer ") {
				utils.SendJSONError(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseJWT(secret, strings.TrimPrefix(tokenString, "Bearer "))
			if err != nil {
				log.Debug().Err(err).Msg("Rejected bearer token")
				utils.SendJSONError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), claims.UserID)))
		})
	}
}
