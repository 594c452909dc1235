package auth

import (
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Pin string `json:"pin" validate:"required,min=4,max=64"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   int64             `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}

type MeResponse struct {
	User user.UserResponse  `json:"user"`
	Sede *sede.SedeResponse `json:"sede"`
}
