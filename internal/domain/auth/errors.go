package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid pin")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrMissingClaims      = errors.New("token is missing required claims")
)
