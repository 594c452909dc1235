package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	analyticsService "github.com/sedes-asistencia/asistencia-backend-go/internal/service/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PayrollServiceImpl struct {
	recordRepo  attendance.RecordRepository
	userRepo    user.UserRepository
	engine      *analyticsService.Engine
	fileService file.FileService
	clock       civildate.Clock
	hourlyRate  decimal.Decimal
}

func NewPayrollService(
	recordRepo attendance.RecordRepository,
	userRepo user.UserRepository,
	engine *analyticsService.Engine,
	fileService file.FileService,
	clock civildate.Clock,
	hourlyRate decimal.Decimal,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		recordRepo:  recordRepo,
		userRepo:    userRepo,
		engine:      engine,
		fileService: fileService,
		clock:       clock,
		hourlyRate:  hourlyRate,
	}
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.ExportRequest) ([]payroll.Row, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rng, err := s.window(req)
	if err != nil {
		return nil, err
	}

	recordFilter := attendance.RecordFilter{UserID: req.UserID, SedeID: req.SedeID}
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
		users, err = s.userRepo.List(gctx, user.ListUsersFilter{Role: &employeeRole, SedeID: req.SedeID})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	startLabel, endLabel := payroll.StartLabelOpen, payroll.EndLabelOpen
	if hasDate(req.Start) {
		startLabel = *req.Start
	}
	if hasDate(req.End) {
		endLabel = *req.End
	}

	rows := make([]payroll.Row, 0, len(users))
	for _, u := range users {
		if req.UserID != nil && u.ID != *req.UserID {
			continue
		}
		stats := s.engine.CalculateHours(records, u.ID, rng)

		daysWorked := 0
		for _, d := range stats.DailyStats {
			if d.Hours > 0 {
				daysWorked++
			}
		}

		rows = append(rows, payroll.Row{
			UserID:     u.ID,
			Name:       u.Name,
			Role:       u.Role,
			TotalHours: stats.TotalHours,
			DaysWorked: daysWorked,
			StartLabel: startLabel,
			EndLabel:   endLabel,
			Cost:       s.engine.Cost(stats.TotalHours, s.hourlyRate).Round(2),
		})
	}
	return rows, nil
}

// Export implements payroll.PayrollService.
func (s *PayrollServiceImpl) Export(ctx context.Context, req payroll.ExportRequest) (payroll.ExportFile, error) {
	rows, err := s.Generate(ctx, req)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	now := s.clock.Now()
	stamp := civildate.DateKey(now, s.engine.Location())
	out := payroll.ExportFile{GeneratedAt: now}
	switch req.Format {
	case payroll.FormatCSV, "":
		out.Data, err = CSV(rows)
		out.Filename = fmt.Sprintf("nomina-%s.csv", stamp)
		out.ContentType = contentTypeCSV
	case payroll.FormatXLSX:
		out.Data, err = XLSX(rows)
		out.Filename = fmt.Sprintf("nomina-%s.xlsx", stamp)
		out.ContentType = contentTypeXLSX
	default:
		return payroll.ExportFile{}, payroll.ErrInvalidFormat
	}
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render payroll: %w", err)
	}
	return out, nil
}

// Archive implements payroll.PayrollService.
func (s *PayrollServiceImpl) Archive(ctx context.Context, req payroll.ExportRequest) (string, error) {
	req.Format = payroll.FormatXLSX
	export, err := s.Export(ctx, req)
	if err != nil {
		return "", err
	}

	name := export.Filename
	if hasDate(req.Start) && hasDate(req.End) {
		name = fmt.Sprintf("nomina-%s_%s.xlsx", *req.Start, *req.End)
	}

	path, err := s.fileService.UploadPayrollExport(ctx, name, export.Data, export.ContentType)
	if err != nil {
		return "", err
	}
	slog.Info("payroll archived", "path", path, "bytes", len(export.Data))
	return path, nil
}

// window converts the request dates into an inclusive instant range. The end
// date covers its whole civil day.
func (s *PayrollServiceImpl) window(req payroll.ExportRequest) (*analytics.DateRange, error) {
	hasStart := hasDate(req.Start)
	hasEnd := hasDate(req.End)
	if !hasStart && !hasEnd {
		return nil, nil
	}

	loc := s.engine.Location()
	rng := &analytics.DateRange{
		Start: time.Unix(0, 0),
		End:   civildate.EndOfDay(s.clock.Now(), loc),
	}
	if hasStart {
		start, err := civildate.ParseDate(*req.Start, loc)
		if err != nil {
			return nil, payroll.ErrInvalidRange
		}
		rng.Start = start
	}
	if hasEnd {
		end, err := civildate.ParseDate(*req.End, loc)
		if err != nil {
			return nil, payroll.ErrInvalidRange
		}
		rng.End = civildate.EndOfDay(end, loc)
	}
	return rng, nil
}

func hasDate(s *string) bool {
	return s != nil && *s != ""
}
