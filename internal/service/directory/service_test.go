package directory

import (
	"context"
	"testing"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc   *DirectoryServiceImpl
	store *servicetest.Store
	tx    *servicetest.Tx
	files *servicetest.Files
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := servicetest.NewStore()
	store.AddSede(sede.Sede{ID: "s1", Name: "Principal", Location: geo.Point{Lat: 4.711, Lng: -74.0721}, RadiusMeters: 100})
	tx := &servicetest.Tx{}
	files := servicetest.NewFiles()

	svc := NewDirectoryService(tx, store.UserRepo(), store.SedeRepo(), store.RecordRepo(), files).(*DirectoryServiceImpl)
	svc.hashCost = bcrypt.MinCost
	return fixture{svc: svc, store: store, tx: tx, files: files}
}

func hashPin(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// ========== USERS ==========

func TestCreateUser_HashesPin(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.CreateUser(context.Background(), user.CreateUserRequest{
		Name:   "Ana",
		Role:   user.RoleEmployee,
		Pin:    "1234",
		SedeID: strPtr("s1"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Ana", resp.Name)

	stored, ok := f.store.User(resp.ID)
	require.True(t, ok)
	assert.NotEqual(t, "1234", stored.PinHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PinHash), []byte("1234")))
}

func TestCreateUser_EmployeeNeedsSede(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateUser(context.Background(), user.CreateUserRequest{
		Name: "Ana",
		Role: user.RoleEmployee,
		Pin:  "1234",
	})
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sede_id", ve[0].Field)
}

func TestCreateUser_UnknownSede(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateUser(context.Background(), user.CreateUserRequest{
		Name:   "Ana",
		Role:   user.RoleEmployee,
		Pin:    "1234",
		SedeID: strPtr("missing"),
	})
	assert.ErrorIs(t, err, sede.ErrSedeNotFound)
}

func TestCreateUser_PinTaken(t *testing.T) {
	f := setup(t)
	f.store.AddUser(user.User{ID: "u1", Name: "Ana", Role: user.RoleAdmin, PinHash: hashPin(t, "1234")})

	_, err := f.svc.CreateUser(context.Background(), user.CreateUserRequest{
		Name: "Bruno",
		Role: user.RoleAdmin,
		Pin:  "1234",
	})
	assert.ErrorIs(t, err, user.ErrPinAlreadyUsed)
}

func TestUpdateUser(t *testing.T) {
	f := setup(t)
	f.store.AddUser(user.User{ID: "u1", Name: "Ana", Role: user.RoleEmployee, SedeID: strPtr("s1"), PinHash: hashPin(t, "1234")})

	t.Run("keeping own pin is allowed", func(t *testing.T) {
		resp, err := f.svc.UpdateUser(context.Background(), user.UpdateUserRequest{
			ID:   "u1",
			Name: strPtr("Ana María"),
			Pin:  strPtr("1234"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", resp.Name)
	})

	t.Run("clear sede wins over sede id", func(t *testing.T) {
		resp, err := f.svc.UpdateUser(context.Background(), user.UpdateUserRequest{
			ID:        "u1",
			SedeID:    strPtr("s1"),
			ClearSede: true,
		})
		require.NoError(t, err)
		assert.Nil(t, resp.SedeID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.UpdateUser(context.Background(), user.UpdateUserRequest{ID: "nope", Name: strPtr("X")})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestDeleteUser_RemovesRecordsAndPhotos(t *testing.T) {
	f := setup(t)
	f.store.AddUser(user.User{ID: "u1", Name: "Ana", Role: user.RoleEmployee, SedeID: strPtr("s1")})
	f.store.AddUser(user.User{ID: "u2", Name: "Bruno", Role: user.RoleEmployee, SedeID: strPtr("s1")})
	f.store.AddRecords(
		attendance.Record{ID: "r1", UserID: "u1", Type: attendance.TypeIn, Date: "2026-03-10", PhotoURL: strPtr("attendance/2026-03-10/u1-in.jpg")},
		attendance.Record{ID: "r2", UserID: "u1", Type: attendance.TypeOut, Date: "2026-03-10"},
		attendance.Record{ID: "r3", UserID: "u2", Type: attendance.TypeIn, Date: "2026-03-10"},
	)

	require.NoError(t, f.svc.DeleteUser(context.Background(), "u1"))

	_, ok := f.store.User("u1")
	assert.False(t, ok)
	remaining := f.store.Records()
	require.Len(t, remaining, 1)
	assert.Equal(t, "r3", remaining[0].ID)
	assert.Equal(t, []string{"attendance/2026-03-10/u1-in.jpg"}, f.files.Deleted)
	assert.Equal(t, 1, f.tx.Calls)
}

func TestDeleteUser_Self(t *testing.T) {
	f := setup(t)
	admin := f.store.AddUser(user.User{ID: "a1", Name: "Admin", Role: user.RoleAdmin})

	ctx := servicetest.WithActor(t, context.Background(), admin)
	err := f.svc.DeleteUser(ctx, "a1")
	assert.ErrorIs(t, err, user.ErrCannotDeleteSelf)
	_, ok := f.store.User("a1")
	assert.True(t, ok)
}

func TestDeleteUser_NotFound(t *testing.T) {
	f := setup(t)
	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), "nope"), user.ErrUserNotFound)
	assert.Zero(t, f.tx.Calls)
}

// ========== SEDES ==========

func TestCreateSede_DefaultRadius(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.CreateSede(context.Background(), sede.CreateSedeRequest{
		Name:     "Norte",
		Location: sede.LocationRequest{Lat: 4.75, Lng: -74.05},
	})
	require.NoError(t, err)
	assert.Equal(t, geo.DefaultRadiusMeters, resp.RadiusMeters)
}

func TestCreateSede_DuplicateName(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateSede(context.Background(), sede.CreateSedeRequest{
		Name:     "Principal",
		Location: sede.LocationRequest{Lat: 4.75, Lng: -74.05},
	})
	assert.ErrorIs(t, err, sede.ErrSedeNameExists)
}

func TestCreateSede_InvalidLatitude(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateSede(context.Background(), sede.CreateSedeRequest{
		Name:     "Sur",
		Location: sede.LocationRequest{Lat: 120, Lng: -74.05},
	})
	var ve validator.ValidationErrors
	assert.ErrorAs(t, err, &ve)
}

func TestUpdateSede(t *testing.T) {
	f := setup(t)
	radius := 250.0

	resp, err := f.svc.UpdateSede(context.Background(), sede.UpdateSedeRequest{
		ID:           "s1",
		Address:      strPtr("Calle 1"),
		RadiusMeters: &radius,
	})
	require.NoError(t, err)
	assert.Equal(t, "Calle 1", resp.Address)
	assert.Equal(t, 250.0, resp.RadiusMeters)
	assert.Equal(t, "Principal", resp.Name)

	_, err = f.svc.UpdateSede(context.Background(), sede.UpdateSedeRequest{ID: "nope", Address: strPtr("x")})
	assert.ErrorIs(t, err, sede.ErrSedeNotFound)
}

func TestDeleteSede_UnassignsUsers(t *testing.T) {
	f := setup(t)
	f.store.AddUser(user.User{ID: "u1", Name: "Ana", Role: user.RoleEmployee, SedeID: strPtr("s1")})

	require.NoError(t, f.svc.DeleteSede(context.Background(), "s1"))

	_, ok := f.store.Sede("s1")
	assert.False(t, ok)
	u, _ := f.store.User("u1")
	assert.Nil(t, u.SedeID)

	assert.ErrorIs(t, f.svc.DeleteSede(context.Background(), "s1"), sede.ErrSedeNotFound)
}

func TestUserSede(t *testing.T) {
	f := setup(t)
	f.store.AddUser(user.User{ID: "u1", Name: "Ana", Role: user.RoleEmployee, SedeID: strPtr("s1")})
	f.store.AddUser(user.User{ID: "a1", Name: "Admin", Role: user.RoleAdmin})

	sd, err := f.svc.UserSede(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, sd)
	assert.Equal(t, "Principal", sd.Name)

	sd, err = f.svc.UserSede(context.Background(), "a1")
	require.NoError(t, err)
	assert.Nil(t, sd)
}
