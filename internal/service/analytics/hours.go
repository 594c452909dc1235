package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
)

// CalculateHours pairs a user's records sequentially within the inclusive
// range: each "in" immediately followed by an "out" is one work period,
// credited to the civil day of the "in". A nil range covers everything.
//
// Deprecated: day-bucketed sessions (SessionsFor) are the pairing used by
// dashboards. CalculateHours backs the per employee statistics endpoint and
// the payroll export only.
func (e *Engine) CalculateHours(records []attendance.Record, userID string, rng *analytics.DateRange) analytics.EmployeeStats {
	userRecords := recordsOf(records, userID)
	if rng != nil {
		filtered := userRecords[:0]
		for _, r := range userRecords {
			if rng.Contains(r.Timestamp) {
				filtered = append(filtered, r)
			}
		}
		userRecords = filtered
	}

	stats := analytics.EmployeeStats{
		UserID:       userID,
		DailyStats:   []analytics.DailyStat{},
		WeeklyStats:  []analytics.WeeklyStat{},
		MonthlyStats: []analytics.MonthlyStat{},
	}
	if len(userRecords) > 0 {
		stats.Name = userRecords[0].UserName
	}

	daily := make(map[string]float64)
	var total float64
	for i := 0; i < len(userRecords)-1; {
		in, out := userRecords[i], userRecords[i+1]
		if in.Type == attendance.TypeIn && out.Type == attendance.TypeOut {
			h := hoursBetween(in.Timestamp, out.Timestamp)
			total += h
			daily[civildate.DateKey(in.Timestamp, e.loc)] += h
			i += 2
			continue
		}
		i++
	}
	stats.TotalHours = round2(total)

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	weekly := make(map[string]float64)
	monthly := make(map[string]float64)
	var weekOrder, monthOrder []string
	for _, d := range dates {
		h := round2(daily[d])
		stats.DailyStats = append(stats.DailyStats, analytics.DailyStat{Date: d, Hours: h})

		day, err := civildate.ParseDate(d, e.loc)
		if err != nil {
			continue
		}
		wk := weekKey(day)
		if _, ok := weekly[wk]; !ok {
			weekOrder = append(weekOrder, wk)
		}
		weekly[wk] += h

		mk := day.Format(civildate.MonthLayout)
		if _, ok := monthly[mk]; !ok {
			monthOrder = append(monthOrder, mk)
		}
		monthly[mk] += h
	}
	for _, wk := range weekOrder {
		stats.WeeklyStats = append(stats.WeeklyStats, analytics.WeeklyStat{Week: wk, Hours: round2(weekly[wk])})
	}
	for _, mk := range monthOrder {
		stats.MonthlyStats = append(stats.MonthlyStats, analytics.MonthlyStat{Month: mk, Hours: round2(monthly[mk])})
	}
	return stats
}

// weekKey numbers weeks from the Sunday on or before January 1st, so
// January 1st is always in W1.
func weekKey(day time.Time) string {
	jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
	offset := int(jan1.Weekday())
	n := (day.YearDay()-1+offset)/7 + 1
	return fmt.Sprintf("W%d-%d", n, day.Year())
}
