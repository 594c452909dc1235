package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/database"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

type DirectoryServiceImpl struct {
	tx          database.Transactor
	userRepo    user.UserRepository
	sedeRepo    sede.SedeRepository
	recordRepo  attendance.RecordRepository
	fileService file.FileService
	hashCost    int
}

func NewDirectoryService(
	tx database.Transactor,
	userRepo user.UserRepository,
	sedeRepo sede.SedeRepository,
	recordRepo attendance.RecordRepository,
	fileService file.FileService,
) directory.DirectoryService {
	return &DirectoryServiceImpl{
		tx:          tx,
		userRepo:    userRepo,
		sedeRepo:    sedeRepo,
		recordRepo:  recordRepo,
		fileService: fileService,
		hashCost:    bcrypt.DefaultCost,
	}
}

// ==================== USER OPERATIONS ====================

func (s *DirectoryServiceImpl) ListUsers(ctx context.Context, filter user.ListUsersFilter) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u))
	}
	return resp, nil
}

func (s *DirectoryServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

func (s *DirectoryServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if req.SedeID != nil {
		if _, err := s.getSede(ctx, *req.SedeID); err != nil {
			return user.UserResponse{}, err
		}
	}
	if err := s.ensurePinAvailable(ctx, req.Pin, ""); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), s.hashCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash pin: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Name:    req.Name,
		Role:    req.Role,
		PinHash: string(hash),
		SedeID:  req.SedeID,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user.NewUserResponse(created), nil
}

func (s *DirectoryServiceImpl) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.getUser(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}
	switch {
	case req.ClearSede:
		existing.SedeID = nil
	case req.SedeID != nil:
		if _, err := s.getSede(ctx, *req.SedeID); err != nil {
			return user.UserResponse{}, err
		}
		existing.SedeID = req.SedeID
	}
	if req.Pin != nil {
		if err := s.ensurePinAvailable(ctx, *req.Pin, existing.ID); err != nil {
			return user.UserResponse{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), s.hashCost)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash pin: %w", err)
		}
		existing.PinHash = string(hash)
	}

	updated, err := s.userRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user.NewUserResponse(updated), nil
}

// DeleteUser removes the user and all of their attendance records in one
// transaction. Photos are removed after commit; failures there are logged.
func (s *DirectoryServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if actor, err := auth.ActorFromContext(ctx); err == nil && actor.UserID == id {
		return user.ErrCannotDeleteSelf
	}

	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	var deleted []attendance.Record
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.recordRepo.DeleteByUser(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to delete attendance records: %w", err)
		}
		if err := s.userRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return user.ErrUserNotFound
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deletePhotos(ctx, deleted)
	return nil
}

// ==================== SEDE OPERATIONS ====================

func (s *DirectoryServiceImpl) ListSedes(ctx context.Context) ([]sede.SedeResponse, error) {
	sedes, err := s.sedeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sedes: %w", err)
	}

	resp := make([]sede.SedeResponse, 0, len(sedes))
	for _, sd := range sedes {
		resp = append(resp, sede.NewSedeResponse(sd))
	}
	return resp, nil
}

func (s *DirectoryServiceImpl) GetSede(ctx context.Context, id string) (sede.SedeResponse, error) {
	sd, err := s.getSede(ctx, id)
	if err != nil {
		return sede.SedeResponse{}, err
	}
	return sede.NewSedeResponse(sd), nil
}

func (s *DirectoryServiceImpl) CreateSede(ctx context.Context, req sede.CreateSedeRequest) (sede.SedeResponse, error) {
	if err := req.Validate(); err != nil {
		return sede.SedeResponse{}, err
	}

	created, err := s.sedeRepo.Create(ctx, sede.Sede{
		Name:         req.Name,
		Address:      req.Address,
		Location:     geo.Point{Lat: req.Location.Lat, Lng: req.Location.Lng},
		RadiusMeters: geo.EffectiveRadius(req.RadiusMeters),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				return sede.SedeResponse{}, sede.ErrSedeNameExists
			}
		}
		return sede.SedeResponse{}, fmt.Errorf("failed to create sede: %w", err)
	}
	return sede.NewSedeResponse(created), nil
}

func (s *DirectoryServiceImpl) UpdateSede(ctx context.Context, req sede.UpdateSedeRequest) (sede.SedeResponse, error) {
	if err := req.Validate(); err != nil {
		return sede.SedeResponse{}, err
	}

	existing, err := s.getSede(ctx, req.ID)
	if err != nil {
		return sede.SedeResponse{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}
	if req.Location != nil {
		existing.Location = geo.Point{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}
	if req.RadiusMeters != nil {
		existing.RadiusMeters = geo.EffectiveRadius(*req.RadiusMeters)
	}

	updated, err := s.sedeRepo.Update(ctx, existing)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sede.SedeResponse{}, sede.ErrSedeNameExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return sede.SedeResponse{}, sede.ErrSedeNotFound
		}
		return sede.SedeResponse{}, fmt.Errorf("failed to update sede: %w", err)
	}
	return sede.NewSedeResponse(updated), nil
}

// DeleteSede unassigns the sede's users and removes it. Their records keep
// their stored coordinates.
func (s *DirectoryServiceImpl) DeleteSede(ctx context.Context, id string) error {
	if _, err := s.getSede(ctx, id); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		cleared, err := s.userRepo.ClearSede(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to unassign users: %w", err)
		}
		if err := s.sedeRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return sede.ErrSedeNotFound
			}
			return fmt.Errorf("failed to delete sede: %w", err)
		}
		slog.Info("sede deleted", "sede_id", id, "users_unassigned", cleared)
		return nil
	})
}

func (s *DirectoryServiceImpl) UserSede(ctx context.Context, userID string) (*sede.Sede, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.SedeID == nil {
		return nil, nil
	}
	sd, err := s.getSede(ctx, *u.SedeID)
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

// ==================== HELPER FUNCTIONS ====================

func (s *DirectoryServiceImpl) getUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *DirectoryServiceImpl) getSede(ctx context.Context, id string) (sede.Sede, error) {
	sd, err := s.sedeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sede.Sede{}, sede.ErrSedeNotFound
		}
		return sede.Sede{}, fmt.Errorf("failed to get sede: %w", err)
	}
	return sd, nil
}

// ensurePinAvailable rejects a PIN that already unlocks another user. Login is
// by PIN alone, so two users sharing one would be indistinguishable.
func (s *DirectoryServiceImpl) ensurePinAvailable(ctx context.Context, pin string, exceptUserID string) error {
	users, err := s.userRepo.List(ctx, user.ListUsersFilter{})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if u.ID == exceptUserID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)) == nil {
			return user.ErrPinAlreadyUsed
		}
	}
	return nil
}

func (s *DirectoryServiceImpl) deletePhotos(ctx context.Context, records []attendance.Record) {
	for _, r := range records {
		if r.PhotoURL == nil || *r.PhotoURL == "" {
			continue
		}
		if err := s.fileService.DeleteFile(ctx, *r.PhotoURL); err != nil {
			slog.Error("failed to delete attendance photo", "record_id", r.ID, "path", *r.PhotoURL, "error", err)
		}
	}
}
