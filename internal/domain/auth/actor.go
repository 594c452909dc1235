package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
)

// Actor is the authenticated caller, read from the access token claims.
type Actor struct {
	UserID string
	Name   string
	Role   user.Role
	SedeID *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// ActorFromContext reads the acting user from the JWT claims stored in ctx by
// the jwtauth verifier.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return ActorFromClaims(claims)
}

func ActorFromClaims(claims map[string]interface{}) (Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, fmt.Errorf("user_id claim: %w", ErrMissingClaims)
	}
	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return Actor{}, fmt.Errorf("role claim: %w", ErrMissingClaims)
	}

	actor := Actor{UserID: userID, Role: user.Role(role)}
	actor.Name, _ = claims["name"].(string)
	if sedeID, ok := claims["sede_id"].(string); ok && sedeID != "" {
		actor.SedeID = &sedeID
	}
	return actor, nil
}
