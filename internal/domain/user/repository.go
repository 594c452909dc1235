package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error

	// ClearSede unassigns every user from the given sede
	ClearSede(ctx context.Context, sedeID string) (int64, error)
}
