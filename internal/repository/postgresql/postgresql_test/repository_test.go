package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bogota = civildate.Bogota()

func newRecord(u user.User, typ attendance.RecordType, ts time.Time) attendance.Record {
	return attendance.Record{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		Type:      typ,
		Timestamp: ts,
		Date:      civildate.DateKey(ts, bogota),
		Location:  attendance.Location{Lat: 4.711, Lng: -74.0721},
	}
}

func TestSedeAndUserRepositories(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	sedes := postgresql.NewSedeRepository(db)
	users := postgresql.NewUserRepository(db)

	principal, err := sedes.Create(ctx, sede.Sede{Name: "Principal", Location: geo.Point{Lat: 4.711, Lng: -74.0721}, RadiusMeters: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, principal.ID)

	_, err = sedes.Create(ctx, sede.Sede{Name: "Principal", Location: geo.Point{Lat: 1, Lng: 1}, RadiusMeters: 50})
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)

	ana, err := users.Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, PinHash: "hash", SedeID: &principal.ID})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.User{Name: "Admin", Role: user.RoleAdmin, PinHash: "hash2"})
	require.NoError(t, err)

	role := user.RoleEmployee
	employees, err := users.List(ctx, user.ListUsersFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, ana.ID, employees[0].ID)

	inSede, err := users.List(ctx, user.ListUsersFilter{SedeID: &principal.ID})
	require.NoError(t, err)
	assert.Len(t, inSede, 1)

	cleared, err := users.ClearSede(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	got, err := users.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SedeID)

	require.NoError(t, sedes.Delete(ctx, principal.ID))
	assert.ErrorIs(t, sedes.Delete(ctx, principal.ID), pgx.ErrNoRows)

	_, err = users.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestRecordRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	sedes := postgresql.NewSedeRepository(db)
	users := postgresql.NewUserRepository(db)
	records := postgresql.NewRecordRepository(db)

	principal, err := sedes.Create(ctx, sede.Sede{Name: "Principal", Location: geo.Point{Lat: 4.711, Lng: -74.0721}, RadiusMeters: 100})
	require.NoError(t, err)
	ana, err := users.Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, PinHash: "hash", SedeID: &principal.ID})
	require.NoError(t, err)
	bruno, err := users.Create(ctx, user.User{Name: "Bruno", Role: user.RoleEmployee, PinHash: "hash2"})
	require.NoError(t, err)

	day := time.Date(2026, time.March, 10, 8, 0, 0, 0, bogota)
	photo := "attendance/2026-03-10/ana-in.jpg"
	in := newRecord(ana, attendance.TypeIn, day)
	in.PhotoURL = &photo
	created, err := records.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", created.Date)
	assert.True(t, created.Timestamp.Equal(day))

	_, err = records.Create(ctx, newRecord(ana, attendance.TypeIn, day.Add(time.Hour)))
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "one entry per user per civil date")
	assert.Equal(t, "23505", pgErr.Code)

	_, err = records.Create(ctx, newRecord(ana, attendance.TypeOut, day.Add(9*time.Hour)))
	require.NoError(t, err)
	_, err = records.Create(ctx, newRecord(bruno, attendance.TypeIn, day.Add(time.Hour)))
	require.NoError(t, err)

	all, err := records.List(ctx, attendance.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, attendance.TypeIn, all[0].Type, "ascending by timestamp")

	bySede, err := records.List(ctx, attendance.RecordFilter{SedeID: &principal.ID})
	require.NoError(t, err)
	assert.Len(t, bySede, 2)

	from := day.Add(30 * time.Minute)
	to := day.Add(2 * time.Hour)
	windowed, err := records.List(ctx, attendance.RecordFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, bruno.ID, windowed[0].UserID)

	page, total, err := records.ListPaged(ctx, attendance.RecordFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, attendance.TypeOut, page[0].Type, "newest first")

	deleted, err := records.DeleteByUserAndDate(ctx, ana.ID, "2026-03-10")
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	deleted, err = records.DeleteByUser(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
}

func TestTxManager_RollsBack(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	sedes := postgresql.NewSedeRepository(db)
	tx := postgresql.NewTxManager(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := sedes.Create(txCtx, sede.Sede{Name: "Temporal", Location: geo.Point{Lat: 1, Lng: 1}, RadiusMeters: 10}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := sedes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
