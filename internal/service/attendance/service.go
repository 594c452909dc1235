package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/queue"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/file"
)

const photoURLExpiry = time.Hour

type AttendanceServiceImpl struct {
	recordRepo  attendance.RecordRepository
	userRepo    user.UserRepository
	sedeRepo    sede.SedeRepository
	engine      *analytics.Engine
	fileService file.FileService
	publisher   queue.Publisher
	clock       civildate.Clock
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	userRepo user.UserRepository,
	sedeRepo sede.SedeRepository,
	engine *analytics.Engine,
	fileService file.FileService,
	publisher queue.Publisher,
	clock civildate.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		recordRepo:  recordRepo,
		userRepo:    userRepo,
		sedeRepo:    sedeRepo,
		engine:      engine,
		fileService: fileService,
		publisher:   publisher,
		clock:       clock,
	}
}

// recordedEvent is the payload of queue.EventAttendanceRecorded.
type recordedEvent struct {
	RecordID       string                `json:"record_id"`
	UserID         string                `json:"user_id"`
	SedeID         string                `json:"sede_id"`
	Type           attendance.RecordType `json:"type"`
	Timestamp      time.Time             `json:"timestamp"`
	Date           string                `json:"date"`
	DistanceMeters float64               `json:"distance_meters"`
}

// Clock implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Clock(ctx context.Context, req attendance.ClockRequest) (attendance.RecordResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	// The sede assignment is read fresh; the token copy may be stale
	u, err := a.getUser(ctx, actor.UserID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if u.SedeID == nil {
		return attendance.RecordResponse{}, attendance.ErrNoSedeAssigned
	}
	sd, err := a.sedeRepo.GetByID(ctx, *u.SedeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.RecordResponse{}, attendance.ErrNoSedeAssigned
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get sede: %w", err)
	}

	point := req.Point()
	distance := geo.DistanceMeters(point, sd.Location)
	if !sd.Contains(point) {
		return attendance.RecordResponse{}, &attendance.GeofenceError{
			SedeName:       sd.Name,
			DistanceMeters: math.Round(distance),
			RadiusMeters:   sd.Radius(),
		}
	}

	now := a.clock.Now()
	loc := a.engine.Location()
	today := civildate.DateKey(now, loc)

	todayRecords, err := a.recordsOn(ctx, u.ID, now)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	for _, r := range todayRecords {
		if r.Type == req.Type {
			return attendance.RecordResponse{}, alreadyClocked(req.Type)
		}
	}

	photoPath, err := a.fileService.UploadAttendancePhoto(ctx, u.ID, today, string(req.Type), req.File, req.FileHeader.Filename)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	created, err := a.recordRepo.Create(ctx, attendance.Record{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		Type:      req.Type,
		Timestamp: now,
		Date:      today,
		Location: attendance.Location{
			Lat:      req.Latitude,
			Lng:      req.Longitude,
			Accuracy: req.Accuracy,
		},
		PhotoURL: &photoPath,
		Notes:    req.Notes,
	})
	if err != nil {
		if delErr := a.fileService.DeleteFile(ctx, photoPath); delErr != nil {
			slog.Error("failed to remove orphaned attendance photo", "path", photoPath, "error", delErr)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation, a concurrent clock won the race
				return attendance.RecordResponse{}, alreadyClocked(req.Type)
			}
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	event := queue.NewEvent(queue.EventAttendanceRecorded, recordedEvent{
		RecordID:       created.ID,
		UserID:         created.UserID,
		SedeID:         sd.ID,
		Type:           created.Type,
		Timestamp:      created.Timestamp,
		Date:           created.Date,
		DistanceMeters: distance,
	})
	if err := a.publisher.Publish(ctx, event); err != nil {
		slog.Error("failed to publish attendance event", "record_id", created.ID, "error", err)
	}

	resp := a.toResponse(ctx, created)
	resp.DistanceMeters = &distance
	return resp, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	u, err := a.getUser(ctx, actor.UserID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	now := a.clock.Now()
	records, err := a.recordsOn(ctx, u.ID, now)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	session := a.engine.TodaySession(records, u.ID, now)
	session.UserName = u.Name
	a.resolveSessionPhotos(ctx, &session)

	resp := attendance.TodayResponse{Session: session}
	if u.SedeID != nil {
		sd, err := a.sedeRepo.GetByID(ctx, *u.SedeID)
		switch {
		case err == nil:
			resp.Sede = &attendance.SedeInfo{
				ID:           sd.ID,
				Name:         sd.Name,
				Location:     sd.Location,
				RadiusMeters: sd.Radius(),
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return attendance.TodayResponse{}, fmt.Errorf("failed to get sede: %w", err)
		}
	}
	if resp.Sede != nil {
		resp.CanClockIn = session.EntryRecord == nil
		resp.CanClockOut = session.ExitRecord == nil
	}
	return resp, nil
}

// MyRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyRecords(ctx context.Context, req attendance.ListRecordsRequest) (attendance.ListRecordsResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	req.UserID = &actor.UserID
	req.SedeID = nil
	return a.listRecords(ctx, req)
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, req attendance.ListRecordsRequest) (attendance.ListRecordsResponse, error) {
	return a.listRecords(ctx, req)
}

// Sessions implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Sessions(ctx context.Context, req attendance.ListRecordsRequest) ([]attendance.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	filter, err := req.ToFilter(a.engine.Location())
	if err != nil {
		return nil, err
	}

	records, err := a.recordRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	sessions := a.engine.AllSessions(records, a.clock.Now())
	for i := range sessions {
		a.resolveSessionPhotos(ctx, &sessions[i])
	}
	return sessions, nil
}

// DeleteDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteDay(ctx context.Context, req attendance.DeleteDayRequest) (attendance.DeleteDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DeleteDayResponse{}, err
	}

	deleted, err := a.recordRepo.DeleteByUserAndDate(ctx, req.UserID, req.Date)
	if err != nil {
		return attendance.DeleteDayResponse{}, fmt.Errorf("failed to delete attendance records: %w", err)
	}
	if len(deleted) == 0 {
		return attendance.DeleteDayResponse{}, attendance.ErrNoRecordsForDay
	}

	for _, r := range deleted {
		if r.PhotoURL == nil || *r.PhotoURL == "" {
			continue
		}
		if err := a.fileService.DeleteFile(ctx, *r.PhotoURL); err != nil {
			slog.Error("failed to delete attendance photo", "record_id", r.ID, "path", *r.PhotoURL, "error", err)
		}
	}

	slog.Info("attendance day deleted", "user_id", req.UserID, "date", req.Date, "records", len(deleted))
	return attendance.DeleteDayResponse{
		UserID:  req.UserID,
		Date:    req.Date,
		Deleted: len(deleted),
	}, nil
}

// ==================== HELPER FUNCTIONS ====================

func alreadyClocked(t attendance.RecordType) error {
	if t == attendance.TypeIn {
		return attendance.ErrAlreadyClockedIn
	}
	return attendance.ErrAlreadyClockedOut
}

func (a *AttendanceServiceImpl) getUser(ctx context.Context, id string) (user.User, error) {
	u, err := a.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// recordsOn lists the user's records on the civil day of t.
func (a *AttendanceServiceImpl) recordsOn(ctx context.Context, userID string, t time.Time) ([]attendance.Record, error) {
	loc := a.engine.Location()
	from := civildate.StartOfDay(t, loc)
	to := civildate.EndOfDay(t, loc)

	records, err := a.recordRepo.List(ctx, attendance.RecordFilter{UserID: &userID, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list today's records: %w", err)
	}
	return records, nil
}

func (a *AttendanceServiceImpl) listRecords(ctx context.Context, req attendance.ListRecordsRequest) (attendance.ListRecordsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}
	filter, err := req.ToFilter(a.engine.Location())
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.recordRepo.ListPaged(ctx, filter, req.Page, req.Limit)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := attendance.ListRecordsResponse{
		Records:    make([]attendance.RecordResponse, 0, len(records)),
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(req.Limit))),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, a.toResponse(ctx, r))
	}
	return resp, nil
}

func (a *AttendanceServiceImpl) toResponse(ctx context.Context, r attendance.Record) attendance.RecordResponse {
	r.PhotoURL = a.photoURL(ctx, r.PhotoURL)
	return attendance.RecordResponse{Record: r}
}

// resolveSessionPhotos swaps stored photo paths for URLs on copies of the
// session's records.
func (a *AttendanceServiceImpl) resolveSessionPhotos(ctx context.Context, s *attendance.Session) {
	if s.EntryRecord != nil {
		entry := *s.EntryRecord
		entry.PhotoURL = a.photoURL(ctx, entry.PhotoURL)
		s.EntryRecord = &entry
	}
	if s.ExitRecord != nil {
		exit := *s.ExitRecord
		exit.PhotoURL = a.photoURL(ctx, exit.PhotoURL)
		s.ExitRecord = &exit
	}
}

func (a *AttendanceServiceImpl) photoURL(ctx context.Context, path *string) *string {
	if path == nil || *path == "" {
		return path
	}
	url, err := a.fileService.GetFileURL(ctx, *path, photoURLExpiry)
	if err != nil {
		slog.Error("failed to resolve photo url", "path", *path, "error", err)
		return path
	}
	return &url
}
