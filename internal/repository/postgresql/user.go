package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/database"
)

const userColumns = `id, name, role, pin_hash, sede_id, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Role,
		&u.PinHash,
		&u.SedeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	where := "1=1"
	args := []interface{}{}
	argIdx := 1
	if filter.Role != nil {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, string(*filter.Role))
		argIdx++
	}
	if filter.SedeID != nil {
		where += fmt.Sprintf(" AND sede_id = $%d", argIdx)
		args = append(args, *filter.SedeID)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY name, id`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create implements user.UserRepository. The id is generated by the database
// when empty.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, name, role, pin_hash, sede_id)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5)
		RETURNING ` + userColumns
	return scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Name,
		string(newUser.Role),
		newUser.PinHash,
		newUser.SedeID,
	))
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $1, role = $2, pin_hash = $3, sede_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + userColumns
	return scanUser(q.QueryRow(ctx, query,
		u.Name,
		string(u.Role),
		u.PinHash,
		u.SedeID,
		u.ID,
	))
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ClearSede implements user.UserRepository.
func (r *userRepositoryImpl) ClearSede(ctx context.Context, sedeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET sede_id = NULL, updated_at = NOW() WHERE sede_id = $1`, sedeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
