package directory

import (
	"context"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
)

// DirectoryService manages the users and sedes the attendance core reads.
type DirectoryService interface {
	// User operations
	ListUsers(ctx context.Context, filter user.ListUsersFilter) ([]user.UserResponse, error)
	GetUser(ctx context.Context, id string) (user.UserResponse, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error

	// Sede operations
	ListSedes(ctx context.Context) ([]sede.SedeResponse, error)
	GetSede(ctx context.Context, id string) (sede.SedeResponse, error)
	CreateSede(ctx context.Context, req sede.CreateSedeRequest) (sede.SedeResponse, error)
	UpdateSede(ctx context.Context, req sede.UpdateSedeRequest) (sede.SedeResponse, error)
	DeleteSede(ctx context.Context, id string) error

	// UserSede returns the sede assigned to a user, nil when unassigned
	UserSede(ctx context.Context, userID string) (*sede.Sede, error)
}
