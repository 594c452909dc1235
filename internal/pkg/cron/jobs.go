package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
)

const (
	JobWeeklyPayrollArchive = "weekly_payroll_archive"
	JobOpenSessionSweep     = "open_session_sweep"

	DefaultPayrollArchiveSpec = "0 6 * * 1"
	DefaultOpenSessionSpec    = "55 23 * * *"
)

type AttendanceJobs struct {
	payrollSvc   payroll.PayrollService
	analyticsSvc analytics.AnalyticsService
	clock        civildate.Clock
	loc          *time.Location
}

func NewAttendanceJobs(
	payrollSvc payroll.PayrollService,
	analyticsSvc analytics.AnalyticsService,
	clock civildate.Clock,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		payrollSvc:   payrollSvc,
		analyticsSvc: analyticsSvc,
		clock:        clock,
		loc:          loc,
	}
}

// RegisterJobs adds both jobs. Empty specs fall back to the defaults.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, payrollSpec, sweepSpec string) error {
	if payrollSpec == "" {
		payrollSpec = DefaultPayrollArchiveSpec
	}
	if sweepSpec == "" {
		sweepSpec = DefaultOpenSessionSpec
	}
	if err := scheduler.AddJob(JobWeeklyPayrollArchive, payrollSpec, j.ArchiveWeeklyPayroll); err != nil {
		return err
	}
	return scheduler.AddJob(JobOpenSessionSweep, sweepSpec, j.SweepOpenSessions)
}

// ArchiveWeeklyPayroll stores the XLSX payroll of the previous Monday to Sunday.
func (j *AttendanceJobs) ArchiveWeeklyPayroll(ctx context.Context) error {
	req := payroll.LastWeek(j.clock.Now(), j.loc)
	path, err := j.payrollSvc.Archive(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to archive payroll %s..%s: %w", *req.Start, *req.End, err)
	}
	slog.Info("Weekly payroll archived", "start", *req.Start, "end", *req.End, "path", path)
	return nil
}

// SweepOpenSessions logs every employee whose session today has an entry but
// no exit. Nothing is written; an admin decides how to close the day.
func (j *AttendanceJobs) SweepOpenSessions(ctx context.Context) error {
	summary, err := j.analyticsSvc.TodaySummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load today's summary: %w", err)
	}

	open := 0
	for _, row := range summary.Employees {
		if row.Session.Status != attendance.StatusInProgress {
			continue
		}
		open++
		slog.Warn("Session still open at end of day",
			"user_id", row.UserID,
			"name", row.Name,
			"date", summary.Date,
			"entry", derefOr(row.Session.Entry, ""),
		)
	}
	slog.Info("Open session sweep completed", "date", summary.Date, "open_sessions", open)
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
