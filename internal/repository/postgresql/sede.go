package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/database"
)

const sedeColumns = `id, name, address, lat, lng, radius_meters, created_at, updated_at`

type sedeRepositoryImpl struct {
	db *database.DB
}

func NewSedeRepository(db *database.DB) sede.SedeRepository {
	return &sedeRepositoryImpl{db: db}
}

func scanSede(row pgx.Row) (sede.Sede, error) {
	var s sede.Sede
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Location.Lat,
		&s.Location.Lng,
		&s.RadiusMeters,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Create implements sede.SedeRepository.
func (r *sedeRepositoryImpl) Create(ctx context.Context, s sede.Sede) (sede.Sede, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sedes (id, name, address, lat, lng, radius_meters)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		RETURNING ` + sedeColumns
	return scanSede(q.QueryRow(ctx, query,
		s.ID,
		s.Name,
		s.Address,
		s.Location.Lat,
		s.Location.Lng,
		s.RadiusMeters,
	))
}

// GetByID implements sede.SedeRepository.
func (r *sedeRepositoryImpl) GetByID(ctx context.Context, id string) (sede.Sede, error) {
	q := GetQuerier(ctx, r.db)

	return scanSede(q.QueryRow(ctx, `SELECT `+sedeColumns+` FROM sedes WHERE id = $1`, id))
}

// List implements sede.SedeRepository.
func (r *sedeRepositoryImpl) List(ctx context.Context) ([]sede.Sede, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+sedeColumns+` FROM sedes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sedes := make([]sede.Sede, 0)
	for rows.Next() {
		s, err := scanSede(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sede: %w", err)
		}
		sedes = append(sedes, s)
	}
	return sedes, rows.Err()
}

// Update implements sede.SedeRepository.
func (r *sedeRepositoryImpl) Update(ctx context.Context, s sede.Sede) (sede.Sede, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sedes
		SET name = $1, address = $2, lat = $3, lng = $4, radius_meters = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + sedeColumns
	return scanSede(q.QueryRow(ctx, query,
		s.Name,
		s.Address,
		s.Location.Lat,
		s.Location.Lng,
		s.RadiusMeters,
		s.ID,
	))
}

// Delete implements sede.SedeRepository.
func (r *sedeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM sedes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
