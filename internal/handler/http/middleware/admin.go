package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/openleave/lms-backend-go/internal/domain/session"
	"github.com/openleave/lms-backend-go/internal/handler/http/response"
)

// AdminOnly gates the admin surface. The leave ledger itself is
// role-agnostic; this is the only role check in the system.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, session.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(session.RoleAdmin) {
			response.HandleError(w, session.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
