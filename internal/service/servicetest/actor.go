package servicetest

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
)

// WithActor returns ctx carrying verified claims for u, as the jwtauth
// verifier leaves them.
func WithActor(t *testing.T, ctx context.Context, u user.User) context.Context {
	t.Helper()
	b := jwt.NewBuilder().
		Subject(u.ID).
		Claim("user_id", u.ID).
		Claim("name", u.Name).
		Claim("role", string(u.Role))
	if u.SedeID != nil {
		b = b.Claim("sede_id", *u.SedeID)
	}
	token, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
