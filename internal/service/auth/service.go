package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo  user.UserRepository
	directory directory.DirectoryService
	jwt.Service
}

func NewAuthService(userRepo user.UserRepository, directoryService directory.DirectoryService, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		directory: directoryService,
		Service:   jwtService,
	}
}

// Login finds the user whose PIN hash matches. PINs are unique across users.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	users, err := a.userRepo.List(ctx, user.ListUsersFilter{})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	var matched *user.User
	for i := range users {
		if bcrypt.CompareHashAndPassword([]byte(users[i].PinHash), []byte(req.Pin)) == nil {
			matched = &users[i]
			break
		}
	}
	if matched == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.GenerateAccessToken(*matched)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("user logged in", "user_id", matched.ID, "role", matched.Role)
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user.NewUserResponse(*matched),
	}, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}

	expiresAt := time.Now().Add(24 * time.Hour).Unix()
	if t, _, err := jwtauth.FromContext(ctx); err == nil && t != nil && !t.Expiration().IsZero() {
		expiresAt = t.Expiration().Unix()
	}
	a.RevokeToken(token, expiresAt)
	return nil
}

func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}

	u, err := a.directory.GetUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.MeResponse{}, auth.ErrInvalidToken
		}
		return auth.MeResponse{}, err
	}

	resp := auth.MeResponse{User: u}
	sd, err := a.directory.UserSede(ctx, actor.UserID)
	if err != nil && !errors.Is(err, sede.ErrSedeNotFound) {
		return auth.MeResponse{}, err
	}
	if sd != nil {
		sr := sede.NewSedeResponse(*sd)
		resp.Sede = &sr
	}
	return resp, nil
}
