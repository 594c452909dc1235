package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(civildate.Bogota())

	require.NoError(t, s.AddJob("ok", "*/5 * * * *", func(context.Context) error { return nil }))
	assert.Error(t, s.AddJob("bad", "every tuesday", func(context.Context) error { return nil }))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "ok", jobs[0].Name)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(civildate.Bogota())
	var order []string
	boom := errors.New("boom")

	require.NoError(t, s.AddJob("first", "0 * * * *", func(context.Context) error {
		order = append(order, "first")
		return boom
	}))
	require.NoError(t, s.AddJob("second", "0 * * * *", func(context.Context) error {
		order = append(order, "second")
		return nil
	}))

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, order, "a failing job does not stop the others")

	require.NoError(t, s.RunJob(context.Background(), "second"))
	assert.Error(t, s.RunJob(context.Background(), "missing"))
}

func TestScheduler_NextInLocation(t *testing.T) {
	s := NewScheduler(civildate.Bogota())
	require.NoError(t, s.AddJob("daily", "55 23 * * *", func(context.Context) error { return nil }))

	s.Start()
	defer s.Stop()

	next := s.Next("daily").In(civildate.Bogota())
	assert.Equal(t, 23, next.Hour())
	assert.Equal(t, 55, next.Minute())
	assert.True(t, s.Next("missing").IsZero())
}

type payrollStub struct {
	payroll.PayrollService
	archived []payroll.ExportRequest
}

func (p *payrollStub) Archive(_ context.Context, req payroll.ExportRequest) (string, error) {
	p.archived = append(p.archived, req)
	return "payroll/" + *req.Start + ".xlsx", nil
}

type analyticsStub struct {
	analytics.AnalyticsService
	summary analytics.TodaySummary
}

func (a *analyticsStub) TodaySummary(context.Context) (analytics.TodaySummary, error) {
	return a.summary, nil
}

func TestAttendanceJobs(t *testing.T) {
	loc := civildate.Bogota()
	now := time.Date(2026, time.March, 11, 6, 0, 0, 0, loc)
	entry := "08:00"

	p := &payrollStub{}
	a := &analyticsStub{summary: analytics.TodaySummary{
		Date: "2026-03-11",
		Employees: []analytics.TodaySummaryRow{
			{UserID: "u1", Name: "Ana", Session: attendance.Session{Status: attendance.StatusInProgress, Entry: &entry}},
			{UserID: "u2", Name: "Bruno", Session: attendance.Session{Status: attendance.StatusFinished}},
		},
	}}
	jobs := NewAttendanceJobs(p, a, civildate.FixedClock{T: now}, loc)

	s := NewScheduler(loc)
	require.NoError(t, jobs.RegisterJobs(s, "", ""))
	registered := s.Jobs()
	require.Len(t, registered, 2)
	assert.Equal(t, DefaultPayrollArchiveSpec, registered[0].Spec)
	assert.Equal(t, DefaultOpenSessionSpec, registered[1].Spec)

	require.NoError(t, s.RunOnce(context.Background()))
	require.Len(t, p.archived, 1)
	assert.Equal(t, "2026-03-02", *p.archived[0].Start)
	assert.Equal(t, "2026-03-08", *p.archived[0].End)
	assert.Equal(t, payroll.FormatXLSX, p.archived[0].Format)
}
