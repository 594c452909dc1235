package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/database"
)

const recordColumns = `
	r.id, r.user_id, r.user_name, r.type, r.recorded_at, r.civil_date::text,
	r.lat, r.lng, r.accuracy, r.photo_path, r.notes, r.created_at`

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.UserName, &rec.Type, &rec.Timestamp, &rec.Date,
		&rec.Location.Lat, &rec.Location.Lng, &rec.Location.Accuracy, &rec.PhotoURL, &rec.Notes, &rec.CreatedAt,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// whereClause renders the filter. Sede membership is resolved through the
// user's current assignment.
func whereClause(filter attendance.RecordFilter) (string, []interface{}) {
	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND r.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.SedeID != nil {
		where += fmt.Sprintf(" AND r.user_id IN (SELECT id FROM users WHERE sede_id = $%d)", argIdx)
		args = append(args, *filter.SedeID)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND r.recorded_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND r.recorded_at <= $%d", argIdx)
		args = append(args, *filter.To)
	}
	return where, args
}

// Create implements attendance.RecordRepository.
func (a *recordRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records AS r (
			id, user_id, user_name, type, recorded_at, civil_date,
			lat, lng, accuracy, photo_path, notes
		) VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11)
		RETURNING ` + recordColumns
	return scanRecord(q.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.UserName,
		string(record.Type),
		record.Timestamp,
		record.Date,
		record.Location.Lat,
		record.Location.Lng,
		record.Location.Accuracy,
		record.PhotoURL,
		record.Notes,
	))
}

// List implements attendance.RecordRepository.
func (a *recordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where, args := whereClause(filter)
	query := `SELECT ` + recordColumns + ` FROM attendance_records r WHERE ` + where + ` ORDER BY r.recorded_at ASC, r.id`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	return collectRecords(rows)
}

// ListPaged implements attendance.RecordRepository.
func (a *recordRepository) ListPaged(ctx context.Context, filter attendance.RecordFilter, page, limit int) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args := whereClause(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records r WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	argIdx := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records r
		WHERE %s
		ORDER BY r.recorded_at DESC, r.id
		LIMIT $%d OFFSET $%d
	`, recordColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// DeleteByUserAndDate implements attendance.RecordRepository.
func (a *recordRepository) DeleteByUserAndDate(ctx context.Context, userID string, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		DELETE FROM attendance_records r
		WHERE r.user_id = $1 AND r.civil_date = $2::date
		RETURNING ` + recordColumns
	rows, err := q.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return collectRecords(rows)
}

// DeleteByUser implements attendance.RecordRepository.
func (a *recordRepository) DeleteByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `DELETE FROM attendance_records r WHERE r.user_id = $1 RETURNING ` + recordColumns
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return collectRecords(rows)
}
