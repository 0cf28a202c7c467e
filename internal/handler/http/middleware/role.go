package middleware

import (
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// StaffOnly requires the staff role. Staff tokens are issued by the school's
// identity provider with the same signing key; this service only verifies
// them.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Staff access required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != jwt.RoleStaff {
			response.Forbidden(w, "Staff access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StudentOnly requires the student role.
func StudentOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Student session required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != jwt.RoleStudent {
			response.Forbidden(w, "Student session required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
