package middleware

import (
	"net/http"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
)

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !actor.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
