package sede

import "context"

type SedeRepository interface {
	Create(ctx context.Context, s Sede) (Sede, error)
	GetByID(ctx context.Context, id string) (Sede, error)
	List(ctx context.Context) ([]Sede, error)
	Update(ctx context.Context, s Sede) (Sede, error)
	Delete(ctx context.Context, id string) error
}
