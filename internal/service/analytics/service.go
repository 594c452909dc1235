package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	recordRepo attendance.RecordRepository
	userRepo   user.UserRepository
	sedeRepo   sede.SedeRepository
	engine     *Engine
	clock      civildate.Clock
	hourlyRate decimal.Decimal
}

func NewAnalyticsService(
	recordRepo attendance.RecordRepository,
	userRepo user.UserRepository,
	sedeRepo sede.SedeRepository,
	engine *Engine,
	clock civildate.Clock,
	hourlyRate decimal.Decimal,
) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		recordRepo: recordRepo,
		userRepo:   userRepo,
		sedeRepo:   sedeRepo,
		engine:     engine,
		clock:      clock,
		hourlyRate: hourlyRate,
	}
}

// MyDashboard implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) MyDashboard(ctx context.Context) (analytics.DashboardData, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return analytics.DashboardData{}, err
	}
	return s.dashboard(ctx, actor.UserID)
}

// EmployeeDashboard implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) EmployeeDashboard(ctx context.Context, userID string) (analytics.DashboardData, error) {
	return s.dashboard(ctx, userID)
}

// dashboard loads the records covering both the current month and the
// current week, which may start in the previous month.
func (s *AnalyticsServiceImpl) dashboard(ctx context.Context, userID string) (analytics.DashboardData, error) {
	now := s.clock.Now()
	loc := s.engine.Location()
	from := civildate.StartOfMonth(now, loc)
	if weekStart := civildate.StartOfWeek(now, loc); weekStart.Before(from) {
		from = weekStart
	}
	to := civildate.EndOfDay(civildate.StartOfMonth(now, loc).AddDate(0, 1, -1), loc)
	if weekEnd := civildate.EndOfDay(civildate.StartOfWeek(now, loc).AddDate(0, 0, 6), loc); weekEnd.After(to) {
		to = weekEnd
	}

	var records []attendance.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.getUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.List(gctx, attendance.RecordFilter{UserID: &userID, From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.DashboardData{}, err
	}

	return s.engine.Dashboard(records, userID, now), nil
}

// EmployeeStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) EmployeeStats(ctx context.Context, req analytics.EmployeeStatsRequest) (analytics.EmployeeStats, error) {
	if err := req.Validate(); err != nil {
		return analytics.EmployeeStats{}, err
	}

	rng, err := s.parseRange(req.From, req.To)
	if err != nil {
		return analytics.EmployeeStats{}, err
	}

	var (
		u       user.User
		records []attendance.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = s.getUser(gctx, req.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.List(gctx, attendance.RecordFilter{UserID: &req.UserID})
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.EmployeeStats{}, err
	}

	stats := s.engine.CalculateHours(records, req.UserID, rng)
	stats.Name = u.Name
	return stats, nil
}

// OrgStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) OrgStats(ctx context.Context, filter analytics.OrgStatsFilter) (analytics.OrgStats, error) {
	if err := filter.Validate(); err != nil {
		return analytics.OrgStats{}, err
	}

	now := s.clock.Now()
	rng, err := s.engine.RangeFor(filter.Range, now)
	if err != nil {
		return analytics.OrgStats{}, err
	}

	recordFilter := attendance.RecordFilter{UserID: filter.UserID, SedeID: filter.SedeID}
	if rng != nil {
		recordFilter.From = &rng.Start
		recordFilter.To = &rng.End
	}
	employeeRole := user.RoleEmployee

	var (
		records []attendance.Record
		users   []user.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.List(gctx, recordFilter)
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, user.ListUsersFilter{Role: &employeeRole, SedeID: filter.SedeID})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.OrgStats{}, err
	}

	return s.engine.OrgStats(records, users, filter, s.hourlyRate, now)
}

// Heatmap implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Heatmap(ctx context.Context, filter analytics.OrgStatsFilter) ([]analytics.HeatmapCell, error) {
	stats, err := s.OrgStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	return stats.Heatmap, nil
}

// TodaySummary implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) TodaySummary(ctx context.Context) (analytics.TodaySummary, error) {
	now := s.clock.Now()
	loc := s.engine.Location()
	from := civildate.StartOfDay(now, loc)
	to := civildate.EndOfDay(now, loc)
	employeeRole := user.RoleEmployee

	var (
		records []attendance.Record
		users   []user.User
		sedes   []sede.Sede
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.List(gctx, attendance.RecordFilter{From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, user.ListUsersFilter{Role: &employeeRole})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sedes, err = s.sedeRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list sedes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.TodaySummary{}, err
	}

	return s.engine.TodaySummary(records, users, sedes, now), nil
}

// ==================== HELPER FUNCTIONS ====================

func (s *AnalyticsServiceImpl) getUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// parseRange turns optional civil dates into an inclusive instant range.
// A missing bound is open.
func (s *AnalyticsServiceImpl) parseRange(from, to *string) (*analytics.DateRange, error) {
	if (from == nil || *from == "") && (to == nil || *to == "") {
		return nil, nil
	}

	loc := s.engine.Location()
	rng := &analytics.DateRange{
		Start: time.Unix(0, 0),
		End:   time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if from != nil && *from != "" {
		start, err := civildate.ParseDate(*from, loc)
		if err != nil {
			return nil, attendance.ErrInvalidDateFilter
		}
		rng.Start = start
	}
	if to != nil && *to != "" {
		end, err := civildate.ParseDate(*to, loc)
		if err != nil {
			return nil, attendance.ErrInvalidDateFilter
		}
		rng.End = civildate.EndOfDay(end, loc)
	}
	if rng.End.Before(rng.Start) {
		return nil, attendance.ErrInvalidDateFilter
	}
	return rng, nil
}
