package middleware

import (
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// SessionRequired rejects requests without a valid, unrevoked session token.
// Runs after jwtauth.Verifier, which parses the token into the context.
func SessionRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, session.ErrSessionInvalid)
				return
			}

			sid, ok := claims["sid"].(string)
			if !ok || sid == "" {
				response.HandleError(w, session.ErrSessionInvalid)
				return
			}

			if jwtService.IsSessionRevoked(sid) {
				response.HandleError(w, session.ErrSessionRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
