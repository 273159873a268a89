package auth

import (
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/auth/commands"
	"github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"
)

// AuthenticationMiddleware verifies the session cookie and stores the
// authenticated user id in the request context. Handlers behind it
// trust that identity unconditionally.
func AuthenticationMiddleware(tokens *domain.JWTManager) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(commands.SessionCookieName)
			if err != nil {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			authContext := core.WithSession(r.Context(), core.ContextSession{UserID: userID})
			next.ServeHTTP(w, r.WithContext(authContext))
		}
	}
}
