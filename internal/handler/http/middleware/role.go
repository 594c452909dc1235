package middleware

import (
	"fmt"
	"net/http"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
)

// RequirePermission requires the actor's role to grant permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := auth.ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(actor.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: %s", user.ErrInsufficientPermission, permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
