package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified, unrevoked access token.
// It expects jwtauth.Verify with jwtauth.TokenFromHeader to run first, so the
// revocation lookup sees the same token that was verified.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			if _, err := auth.ActorFromClaims(claims); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
