package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
)

// ==========================================
// DEFAULT DIRECTORY
// ==========================================

type SeedSede struct {
	Name    string
	Address string
	Lat     float64
	Lng     float64
	Radius  float64
}

type SeedUser struct {
	Name string
	Role user.Role
	Pin  string
	// Sede is the SeedSede name, empty for admins
	Sede string
}

var DefaultSedes = []SeedSede{
	{Name: "Sede Principal", Address: "Calle 1 # 1-1", Lat: 7.31182, Lng: -72.48478, Radius: 100},
	{Name: "Sede Norte", Address: "Calle 100 # 15-15", Lat: 4.6597, Lng: -74.0517, Radius: 100},
}

var DefaultUsers = []SeedUser{
	{Name: "Admin User", Role: user.RoleAdmin, Pin: "admin123"},
	{Name: "Juan Perez", Role: user.RoleEmployee, Pin: "1234", Sede: "Sede Principal"},
	{Name: "Maria Gomez", Role: user.RoleEmployee, Pin: "5678", Sede: "Sede Norte"},
}

// SeedResult counts what Seed created; existing entries are skipped.
type SeedResult struct {
	SedesCreated int
	UsersCreated int
	SedeIDs      map[string]string // name -> id
}

// Seed creates the default sedes and users through the directory service so
// PINs are hashed and validated the same way as the API. Running it twice is
// a no-op.
func Seed(ctx context.Context, svc directory.DirectoryService, sedes []SeedSede, users []SeedUser) (SeedResult, error) {
	result := SeedResult{SedeIDs: make(map[string]string, len(sedes))}

	existing, err := svc.ListSedes(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list sedes: %w", err)
	}
	for _, s := range existing {
		result.SedeIDs[s.Name] = s.ID
	}

	for _, s := range sedes {
		if _, ok := result.SedeIDs[s.Name]; ok {
			continue
		}
		created, err := svc.CreateSede(ctx, sede.CreateSedeRequest{
			Name:         s.Name,
			Address:      s.Address,
			Location:     sede.LocationRequest{Lat: s.Lat, Lng: s.Lng},
			RadiusMeters: s.Radius,
		})
		if err != nil {
			return result, fmt.Errorf("failed to seed sede %q: %w", s.Name, err)
		}
		result.SedeIDs[s.Name] = created.ID
		result.SedesCreated++
	}

	for _, u := range users {
		req := user.CreateUserRequest{Name: u.Name, Role: u.Role, Pin: u.Pin}
		if u.Sede != "" {
			sedeID, ok := result.SedeIDs[u.Sede]
			if !ok {
				return result, fmt.Errorf("user %q references unknown sede %q", u.Name, u.Sede)
			}
			req.SedeID = &sedeID
		}

		if _, err := svc.CreateUser(ctx, req); err != nil {
			if errors.Is(err, user.ErrPinAlreadyUsed) {
				slog.Debug("Seed user already present", "name", u.Name)
				continue
			}
			return result, fmt.Errorf("failed to seed user %q: %w", u.Name, err)
		}
		result.UsersCreated++
	}

	return result, nil
}
