package auth

import "context"

type AuthService interface {
	// Login exchanges a PIN for an access token
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Logout revokes the given bearer token until it expires
	Logout(ctx context.Context, token string) error

	// Me returns the authenticated user and their sede
	Me(ctx context.Context) (MeResponse, error)
}
