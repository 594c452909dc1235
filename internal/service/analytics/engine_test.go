package analytics

import (
	"testing"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/holiday"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bogota = civildate.Bogota()

func newTestEngine(t *testing.T, holidays ...string) *Engine {
	t.Helper()
	cal, err := holiday.New(map[int][]string{2026: holidays})
	require.NoError(t, err)
	return NewEngine(cal, bogota)
}

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2026, month, day, hour, minute, 0, 0, bogota)
}

var recordSeq int

func rec(userID string, typ attendance.RecordType, ts time.Time) attendance.Record {
	recordSeq++
	return attendance.Record{
		ID:        string(rune('a'+recordSeq%26)) + ts.Format("150405"),
		UserID:    userID,
		UserName:  "User " + userID,
		Type:      typ,
		Timestamp: ts,
		Date:      civildate.DateKey(ts, bogota),
	}
}

func strPtr(s string) *string { return &s }

// ========== SESSIONS ==========

func TestSessionsFor_CompletePair(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 17, 0)),
	}

	sessions := e.SessionsFor(records, "u1", at(time.March, 12, 9, 0))
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, "2026-03-10", s.Date)
	assert.Equal(t, 9.0, s.Hours)
	assert.Equal(t, attendance.StatusFinished, s.Status)
	require.NotNil(t, s.Entry)
	require.NotNil(t, s.Exit)
	assert.Equal(t, "08:00", *s.Entry)
	assert.Equal(t, "17:00", *s.Exit)
}

func TestSessionsFor_OpenEntryToday(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0))}

	sessions := e.SessionsFor(records, "u1", at(time.March, 10, 10, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, attendance.StatusInProgress, sessions[0].Status)
	assert.InDelta(t, 2.0, sessions[0].Hours, 0.05)
	assert.Nil(t, sessions[0].Exit)
}

func TestSessionsFor_OpenEntryPastDay(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{rec("u1", attendance.TypeIn, at(time.March, 9, 8, 0))}

	sessions := e.SessionsFor(records, "u1", at(time.March, 10, 10, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, attendance.StatusInProgress, sessions[0].Status)
	assert.Equal(t, 0.0, sessions[0].Hours)
}

func TestSessionsFor_ExitOnly(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{rec("u1", attendance.TypeOut, at(time.March, 10, 17, 0))}

	sessions := e.SessionsFor(records, "u1", at(time.March, 10, 18, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, attendance.StatusNotStarted, sessions[0].Status)
	assert.Equal(t, 0.0, sessions[0].Hours)
	assert.Nil(t, sessions[0].Entry)
	require.NotNil(t, sessions[0].Exit)
}

func TestSessionsFor_ExitBeforeEntryIsZero(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeOut, at(time.March, 10, 7, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
	}

	sessions := e.SessionsFor(records, "u1", at(time.March, 11, 8, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, 0.0, sessions[0].Hours)
	assert.Equal(t, attendance.StatusFinished, sessions[0].Status)
}

func TestSessionsFor_UnorderedAndDuplicates(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeOut, at(time.March, 10, 17, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 9, 0)),
		rec("u2", attendance.TypeIn, at(time.March, 10, 6, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 18, 0)),
	}

	sessions := e.SessionsFor(records, "u1", at(time.March, 11, 8, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, "08:00", *sessions[0].Entry)
	assert.Equal(t, "17:00", *sessions[0].Exit)
	assert.Equal(t, 9.0, sessions[0].Hours)
}

func TestSessionsFor_RoundsToOneDecimal(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 12, 20)),
	}

	sessions := e.SessionsFor(records, "u1", at(time.March, 11, 8, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, 4.3, sessions[0].Hours)
}

func TestTodaySession_NoRecords(t *testing.T) {
	e := newTestEngine(t)
	now := at(time.March, 10, 10, 0)

	s := e.TodaySession(nil, "u1", now)
	assert.Equal(t, "2026-03-10", s.Date)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, attendance.StatusNotStarted, s.Status)
	assert.Zero(t, s.Hours)
}

func TestTodaySession_UsesCivilDate(t *testing.T) {
	e := newTestEngine(t)
	// 23:30 in Bogota is already the next day in UTC.
	records := []attendance.Record{rec("u1", attendance.TypeIn, at(time.March, 10, 23, 30))}
	now := at(time.March, 10, 23, 45).UTC()

	s := e.TodaySession(records, "u1", now)
	assert.Equal(t, "2026-03-10", s.Date)
	assert.Equal(t, attendance.StatusInProgress, s.Status)
}

func TestAllSessions_Ordering(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("b", attendance.TypeIn, at(time.March, 9, 8, 0)),
		rec("a", attendance.TypeIn, at(time.March, 9, 8, 30)),
		rec("b", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("a", attendance.TypeIn, at(time.March, 10, 8, 0)),
	}

	sessions := e.AllSessions(records, at(time.March, 11, 8, 0))
	require.Len(t, sessions, 4)
	got := make([]string, 0, len(sessions))
	for _, s := range sessions {
		got = append(got, s.Date+"/"+s.UserID)
	}
	assert.Equal(t, []string{"2026-03-10/a", "2026-03-10/b", "2026-03-09/a", "2026-03-09/b"}, got)
}

// ========== SEQUENTIAL PAIRING ==========

func TestCalculateHours_Pairs(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 12, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 13, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 17, 30)),
		rec("u1", attendance.TypeIn, at(time.April, 1, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.April, 1, 10, 0)),
	}

	stats := e.CalculateHours(records, "u1", nil)
	assert.Equal(t, 10.5, stats.TotalHours)
	assert.Equal(t, []analytics.DailyStat{
		{Date: "2026-03-10", Hours: 8.5},
		{Date: "2026-04-01", Hours: 2},
	}, stats.DailyStats)
	assert.Equal(t, []analytics.MonthlyStat{
		{Month: "2026-03", Hours: 8.5},
		{Month: "2026-04", Hours: 2},
	}, stats.MonthlyStats)
	require.Len(t, stats.WeeklyStats, 2)
}

func TestCalculateHours_SkipsUnmatched(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 10, 7, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 16, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 17, 0)),
	}

	stats := e.CalculateHours(records, "u1", nil)
	assert.Equal(t, 8.0, stats.TotalHours)
}

func TestCalculateHours_Range(t *testing.T) {
	e := newTestEngine(t)
	records := []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 1, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 1, 9, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 11, 0)),
	}
	rng := &analytics.DateRange{Start: at(time.March, 5, 0, 0), End: at(time.March, 31, 0, 0)}

	stats := e.CalculateHours(records, "u1", rng)
	assert.Equal(t, 3.0, stats.TotalHours)
	require.Len(t, stats.DailyStats, 1)
	assert.Equal(t, "2026-03-10", stats.DailyStats[0].Date)
}

func TestCalculateHours_Empty(t *testing.T) {
	e := newTestEngine(t)

	stats := e.CalculateHours(nil, "u1", nil)
	assert.Zero(t, stats.TotalHours)
	assert.NotNil(t, stats.DailyStats)
	assert.Empty(t, stats.WeeklyStats)
}

func TestWeekKey(t *testing.T) {
	cases := map[string]string{
		"2026-01-01": "W1-2026", // Thursday
		"2026-01-03": "W1-2026", // Saturday
		"2026-01-04": "W2-2026", // Sunday starts week 2
		"2026-03-10": "W11-2026",
	}
	for date, want := range cases {
		day, err := civildate.ParseDate(date, bogota)
		require.NoError(t, err)
		assert.Equal(t, want, weekKey(day), date)
	}
}

// ========== DASHBOARD ==========

// dashboardRecords covers Sunday 8 March through Wednesday 11 March 2026.
func dashboardRecords() []attendance.Record {
	return []attendance.Record{
		rec("u1", attendance.TypeIn, at(time.March, 8, 9, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 8, 11, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 9, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 9, 17, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 10, 12, 30)),
		rec("u1", attendance.TypeIn, at(time.March, 11, 8, 0)),
	}
}

func TestDashboard(t *testing.T) {
	e := newTestEngine(t, "2026-03-23")
	now := at(time.March, 11, 12, 0)

	d := e.Dashboard(dashboardRecords(), "u1", now)

	assert.Equal(t, "2026-03-11", d.Today.Date)
	assert.Equal(t, attendance.StatusInProgress, d.Today.Status)
	assert.Equal(t, "08:00", *d.Today.Entry)
	assert.Equal(t, 4.0, d.Today.Hours)

	require.Len(t, d.WeekTable, 7)
	assert.Equal(t, "Lun", d.WeekTable[0].Day)
	assert.Equal(t, "2026-03-09", d.WeekTable[0].Date)
	assert.Equal(t, 9.0, d.WeekTable[0].Total)
	assert.True(t, d.WeekTable[0].Attended)
	assert.Equal(t, "Jue", d.WeekTable[3].Day)
	assert.False(t, d.WeekTable[3].Attended)
	assert.Equal(t, "Dom", d.WeekTable[6].Day)

	require.Len(t, d.CalendarDays, 31)
	sunday := d.CalendarDays[7]
	assert.Equal(t, 8, sunday.DayNum)
	assert.True(t, sunday.IsWorked)
	assert.False(t, sunday.IsBusinessDay)
	assert.True(t, d.CalendarDays[10].IsToday)
	assert.False(t, d.CalendarDays[22].IsBusinessDay, "holiday")

	acc := d.Accumulated
	assert.Equal(t, 17.5, acc.WeekHours)
	assert.Equal(t, 19.5, acc.MonthHours)
	assert.Equal(t, 4, acc.AttendedDays)
	assert.Equal(t, 8, acc.TotalDaysSoFar)
	assert.Equal(t, 4, acc.AbsentDays)
	assert.Equal(t, 4.9, acc.DailyAverage)

	require.Len(t, d.Charts.DailyBars, 7)
	require.Len(t, d.Charts.MonthlyLine, 11)
	assert.Equal(t, 19.5, d.Charts.MonthlyLine[10].Hours)
	assert.Equal(t, []analytics.NamedValue{
		{Name: "Asistencias", Value: 4},
		{Name: "Ausencias", Value: 4},
	}, d.Charts.AttendanceDonut)
}

func TestDashboard_HolidayReducesBusinessDays(t *testing.T) {
	e := newTestEngine(t, "2026-03-10")
	now := at(time.March, 11, 12, 0)

	d := e.Dashboard(dashboardRecords(), "u1", now)
	assert.Equal(t, 7, d.Accumulated.TotalDaysSoFar)
	assert.Equal(t, 3, d.Accumulated.AbsentDays)
}

func TestDashboard_AbsenceNeverNegative(t *testing.T) {
	e := newTestEngine(t)
	var records []attendance.Record
	for day := 1; day <= 11; day++ {
		records = append(records,
			rec("u1", attendance.TypeIn, at(time.March, day, 8, 0)),
			rec("u1", attendance.TypeOut, at(time.March, day, 9, 0)),
		)
	}

	d := e.Dashboard(records, "u1", at(time.March, 11, 12, 0))
	assert.Equal(t, 11, d.Accumulated.AttendedDays)
	assert.Equal(t, 0, d.Accumulated.AbsentDays)
}

func TestDashboard_NoRecords(t *testing.T) {
	e := newTestEngine(t)

	d := e.Dashboard(nil, "u1", at(time.March, 11, 12, 0))
	assert.Equal(t, attendance.StatusNotStarted, d.Today.Status)
	assert.Zero(t, d.Accumulated.DailyAverage)
	assert.Zero(t, d.Accumulated.MonthHours)
	assert.Equal(t, d.Accumulated.TotalDaysSoFar, d.Accumulated.AbsentDays)
}

// ========== AGGREGATION ==========

func TestAggregate(t *testing.T) {
	e := newTestEngine(t)
	stats := []analytics.EmployeeStats{
		{UserID: "a", TotalHours: 1.11, DailyStats: []analytics.DailyStat{{Date: "2026-03-10", Hours: 1.11}}},
		{UserID: "b", TotalHours: 2.22, DailyStats: []analytics.DailyStat{
			{Date: "2026-03-09", Hours: 1.0},
			{Date: "2026-03-10", Hours: 1.22},
		}},
	}

	agg := e.Aggregate(stats)
	assert.InDelta(t, 3.33, agg.TotalHours, 0.001)
	require.Len(t, agg.DailyTrend, 2)
	assert.Equal(t, "2026-03-09", agg.DailyTrend[0].Date)
	assert.InDelta(t, 2.33, agg.DailyTrend[1].Hours, 0.001)
}

func TestCost(t *testing.T) {
	e := newTestEngine(t)

	cost := e.Cost(10.5, decimal.NewFromInt(12000))
	assert.True(t, cost.Equal(decimal.NewFromInt(126000)), cost.String())
}

func TestMostActive(t *testing.T) {
	e := newTestEngine(t)

	assert.Nil(t, e.MostActive(nil))

	best := e.MostActive([]analytics.EmployeeStats{
		{UserID: "a", Name: "A", TotalHours: 5},
		{UserID: "b", Name: "B", TotalHours: 8},
		{UserID: "c", Name: "C", TotalHours: 8},
	})
	require.NotNil(t, best)
	assert.Equal(t, "b", best.UserID)
}

func TestHeatmap(t *testing.T) {
	e := newTestEngine(t)
	trend := []analytics.DailyStat{
		{Date: "2026-03-01", Hours: 0},
		{Date: "2026-03-02", Hours: 2},
		{Date: "2026-03-03", Hours: 4},
		{Date: "2026-03-04", Hours: 8},
		{Date: "2026-03-05", Hours: 5},
	}

	cells := e.Heatmap(trend)
	require.Len(t, cells, len(trend))
	want := []int{0, 1, 2, 4, 3}
	for i, c := range cells {
		assert.Equal(t, want[i], c.Intensity, c.Date)
		assert.Equal(t, trend[i].Hours, c.Count)
	}

	for i := range cells {
		for j := range cells {
			if trend[i].Hours < trend[j].Hours {
				assert.LessOrEqual(t, cells[i].Intensity, cells[j].Intensity)
			}
		}
	}
}

func TestHeatmap_SmallValuesUseUnitDenominator(t *testing.T) {
	e := newTestEngine(t)

	cells := e.Heatmap([]analytics.DailyStat{{Date: "2026-03-01", Hours: 0}, {Date: "2026-03-02", Hours: 0.5}})
	assert.Equal(t, 0, cells[0].Intensity)
	assert.Equal(t, 2, cells[1].Intensity)
}

func TestRangeFor(t *testing.T) {
	e := newTestEngine(t)
	now := at(time.March, 31, 12, 0)

	rng, err := e.RangeFor(analytics.RangeAll, now)
	require.NoError(t, err)
	assert.Nil(t, rng)

	rng, err = e.RangeFor(analytics.RangeWeek, now)
	require.NoError(t, err)
	assert.Equal(t, at(time.March, 24, 12, 0), rng.Start)

	rng, err = e.RangeFor(analytics.RangeMonth, now)
	require.NoError(t, err)
	assert.Equal(t, at(time.March, 1, 12, 0), rng.Start)

	_, err = e.RangeFor("year", now)
	assert.ErrorIs(t, err, analytics.ErrInvalidTimeRange)
}

func orgUsers() []user.User {
	return []user.User{
		{ID: "admin", Name: "Admin", Role: user.RoleAdmin},
		{ID: "u1", Name: "Juan", Role: user.RoleEmployee, SedeID: strPtr("s1")},
		{ID: "u2", Name: "Maria", Role: user.RoleEmployee, SedeID: strPtr("s2")},
	}
}

func orgRecords() []attendance.Record {
	return []attendance.Record{
		rec("admin", attendance.TypeIn, at(time.March, 30, 8, 0)),
		rec("admin", attendance.TypeOut, at(time.March, 30, 18, 0)),
		rec("u1", attendance.TypeIn, at(time.March, 30, 8, 0)),
		rec("u1", attendance.TypeOut, at(time.March, 30, 16, 0)),
		rec("u2", attendance.TypeIn, at(time.March, 30, 8, 0)),
		rec("u2", attendance.TypeOut, at(time.March, 30, 12, 0)),
		rec("u2", attendance.TypeIn, at(time.March, 10, 8, 0)),
		rec("u2", attendance.TypeOut, at(time.March, 10, 18, 0)),
	}
}

func TestOrgStats(t *testing.T) {
	e := newTestEngine(t)
	now := at(time.March, 31, 12, 0)

	stats, err := e.OrgStats(orgRecords(), orgUsers(), analytics.OrgStatsFilter{Range: analytics.RangeWeek}, decimal.NewFromInt(12000), now)
	require.NoError(t, err)

	require.Len(t, stats.Employees, 2)
	assert.Equal(t, analytics.RangeWeek, stats.Range)
	assert.Equal(t, 12.0, stats.Aggregated.TotalHours)
	assert.Equal(t, 6.0, stats.AverageHours)
	assert.True(t, stats.TotalCost.Equal(decimal.NewFromInt(144000)), stats.TotalCost.String())
	require.NotNil(t, stats.MostActive)
	assert.Equal(t, "u1", stats.MostActive.UserID)
	assert.Equal(t, "Juan", stats.MostActive.Name)
	require.Len(t, stats.Heatmap, 1)
	assert.Equal(t, 4, stats.Heatmap[0].Intensity)
}

func TestOrgStats_AllRangeAndFilters(t *testing.T) {
	e := newTestEngine(t)
	now := at(time.March, 31, 12, 0)
	rate := decimal.NewFromInt(10000)

	stats, err := e.OrgStats(orgRecords(), orgUsers(), analytics.OrgStatsFilter{SedeID: strPtr("s2"), Rate: &rate}, decimal.NewFromInt(12000), now)
	require.NoError(t, err)

	assert.Equal(t, analytics.RangeAll, stats.Range)
	require.Len(t, stats.Employees, 1)
	assert.Equal(t, "u2", stats.Employees[0].UserID)
	assert.Equal(t, 14.0, stats.Aggregated.TotalHours)
	assert.True(t, stats.HourlyRate.Equal(rate))
	assert.True(t, stats.TotalCost.Equal(decimal.NewFromInt(140000)))

	stats, err = e.OrgStats(orgRecords(), orgUsers(), analytics.OrgStatsFilter{UserID: strPtr("nobody")}, rate, now)
	require.NoError(t, err)
	assert.Empty(t, stats.Employees)
	assert.Nil(t, stats.MostActive)
	assert.Zero(t, stats.AverageHours)
}

func TestTodaySummary(t *testing.T) {
	e := newTestEngine(t)
	now := at(time.March, 30, 12, 0)
	sedes := []sede.Sede{
		{ID: "s1", Name: "Sede Principal", Location: geo.Point{Lat: 7.31182, Lng: -72.48478}, RadiusMeters: 100},
	}
	in := rec("u1", attendance.TypeIn, at(time.March, 30, 8, 0))
	in.Location = attendance.Location{Lat: 7.31182, Lng: -72.48478}
	records := []attendance.Record{in}

	summary := e.TodaySummary(records, orgUsers(), sedes, now)
	assert.Equal(t, "2026-03-30", summary.Date)
	require.Len(t, summary.Employees, 2)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 1, summary.NotStarted)
	assert.Equal(t, 0, summary.Finished)

	juan := summary.Employees[0]
	assert.Equal(t, "Juan", juan.Name)
	require.NotNil(t, juan.SedeName)
	assert.Equal(t, "Sede Principal", *juan.SedeName)
	require.NotNil(t, juan.EntryDistanceMeters)
	assert.InDelta(t, 0, *juan.EntryDistanceMeters, 0.001)
	assert.Nil(t, juan.ExitDistanceMeters)

	maria := summary.Employees[1]
	assert.Nil(t, maria.SedeName, "unknown sede")
	assert.Equal(t, attendance.StatusNotStarted, maria.Session.Status)
}
