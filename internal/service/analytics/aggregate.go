package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/shopspring/decimal"
)

const maxIntensity = 4

// Aggregate sums employee totals and per date hours into an org-wide trend.
func (e *Engine) Aggregate(stats []analytics.EmployeeStats) analytics.AggregateStats {
	var total float64
	byDate := make(map[string]float64)
	for _, s := range stats {
		total += s.TotalHours
		for _, d := range s.DailyStats {
			byDate[d.Date] += d.Hours
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trend := make([]analytics.DailyStat, 0, len(dates))
	for _, d := range dates {
		trend = append(trend, analytics.DailyStat{Date: d, Hours: round2(byDate[d])})
	}
	return analytics.AggregateStats{TotalHours: round2(total), DailyTrend: trend}
}

// Cost projects payroll cost as hours times the hourly rate.
func (e *Engine) Cost(hours float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(rate)
}

// MostActive picks the employee with the most hours. On a tie the first one
// seen wins. It returns nil for no employees.
func (e *Engine) MostActive(stats []analytics.EmployeeStats) *analytics.MostActiveEmployee {
	var best *analytics.MostActiveEmployee
	for _, s := range stats {
		if best == nil || s.TotalHours > best.TotalHours {
			best = &analytics.MostActiveEmployee{UserID: s.UserID, Name: s.Name, TotalHours: s.TotalHours}
		}
	}
	return best
}

// Heatmap scales each trend day into intensity 0..4 against the busiest day.
func (e *Engine) Heatmap(trend []analytics.DailyStat) []analytics.HeatmapCell {
	maxHours := 1.0
	for _, d := range trend {
		maxHours = max(maxHours, d.Hours)
	}

	cells := make([]analytics.HeatmapCell, 0, len(trend))
	for _, d := range trend {
		intensity := int(math.Ceil(d.Hours / maxHours * maxIntensity))
		cells = append(cells, analytics.HeatmapCell{
			Date:      d.Date,
			Count:     d.Hours,
			Intensity: min(maxIntensity, max(0, intensity)),
		})
	}
	return cells
}

// RangeFor resolves a named time range relative to now. RangeAll is nil.
func (e *Engine) RangeFor(r analytics.TimeRange, now time.Time) (*analytics.DateRange, error) {
	switch r {
	case analytics.RangeAll, "":
		return nil, nil
	case analytics.RangeWeek:
		return &analytics.DateRange{Start: now.AddDate(0, 0, -7), End: now}, nil
	case analytics.RangeMonth:
		return &analytics.DateRange{Start: now.AddDate(0, 0, -30), End: now}, nil
	default:
		return nil, analytics.ErrInvalidTimeRange
	}
}

// OrgStats computes per employee statistics for the employees matching the
// filter, then aggregates hours, cost and activity across them.
func (e *Engine) OrgStats(records []attendance.Record, users []user.User, filter analytics.OrgStatsFilter, rate decimal.Decimal, now time.Time) (analytics.OrgStats, error) {
	rng, err := e.RangeFor(filter.Range, now)
	if err != nil {
		return analytics.OrgStats{}, err
	}
	if filter.Rate != nil {
		rate = *filter.Rate
	}

	stats := make([]analytics.EmployeeStats, 0, len(users))
	for _, u := range users {
		if !u.IsEmployee() {
			continue
		}
		if filter.SedeID != nil && (u.SedeID == nil || *u.SedeID != *filter.SedeID) {
			continue
		}
		if filter.UserID != nil && u.ID != *filter.UserID {
			continue
		}
		s := e.CalculateHours(records, u.ID, rng)
		s.Name = u.Name
		stats = append(stats, s)
	}

	agg := e.Aggregate(stats)
	result := analytics.OrgStats{
		Range:      filter.Range,
		Employees:  stats,
		Aggregated: agg,
		HourlyRate: rate,
		TotalCost:  e.Cost(agg.TotalHours, rate),
		MostActive: e.MostActive(stats),
		Heatmap:    e.Heatmap(agg.DailyTrend),
	}
	if result.Range == "" {
		result.Range = analytics.RangeAll
	}
	if len(stats) > 0 {
		result.AverageHours = round1(agg.TotalHours / float64(len(stats)))
	}
	return result, nil
}

// TodaySummary lists every employee's session for the civil day of now,
// with the distance of each clock event from the employee's sede.
func (e *Engine) TodaySummary(records []attendance.Record, users []user.User, sedes []sede.Sede, now time.Time) analytics.TodaySummary {
	sedeByID := make(map[string]sede.Sede, len(sedes))
	for _, s := range sedes {
		sedeByID[s.ID] = s
	}

	summary := analytics.TodaySummary{
		Date:      civildate.DateKey(now, e.loc),
		Employees: []analytics.TodaySummaryRow{},
	}
	for _, u := range users {
		if !u.IsEmployee() {
			continue
		}
		session := e.TodaySession(records, u.ID, now)
		session.UserName = u.Name
		row := analytics.TodaySummaryRow{
			UserID:  u.ID,
			Name:    u.Name,
			SedeID:  u.SedeID,
			Session: session,
		}
		if u.SedeID != nil {
			if s, ok := sedeByID[*u.SedeID]; ok {
				name := s.Name
				row.SedeName = &name
				row.EntryDistanceMeters = distanceFrom(session.EntryRecord, s.Location)
				row.ExitDistanceMeters = distanceFrom(session.ExitRecord, s.Location)
			}
		}

		switch session.Status {
		case attendance.StatusNotStarted:
			summary.NotStarted++
		case attendance.StatusInProgress:
			summary.InProgress++
		case attendance.StatusFinished:
			summary.Finished++
		}
		summary.Employees = append(summary.Employees, row)
	}
	sort.SliceStable(summary.Employees, func(i, j int) bool {
		return summary.Employees[i].Name < summary.Employees[j].Name
	})
	return summary
}

func distanceFrom(r *attendance.Record, center geo.Point) *float64 {
	if r == nil {
		return nil
	}
	d := geo.DistanceMeters(r.Location.Point(), center)
	return &d
}
