package analytics

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
)

var weekdayNames = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

// Dashboard builds the per employee view for the civil day of now: today's
// session, the Monday-start week, the month calendar and the accumulated
// figures derived from them.
func (e *Engine) Dashboard(records []attendance.Record, userID string, now time.Time) analytics.DashboardData {
	byDate := e.sessionsByDate(records, userID, now)
	local := now.In(e.loc)
	todayKey := civildate.DateKey(now, e.loc)

	today := e.TodaySession(records, userID, now)
	data := analytics.DashboardData{
		UserID: userID,
		Today: analytics.TodayStats{
			Date:   today.Date,
			Entry:  today.Entry,
			Exit:   today.Exit,
			Hours:  today.Hours,
			Status: today.Status,
		},
	}

	var weekHours float64
	weekStart := civildate.StartOfWeek(local, e.loc)
	data.WeekTable = make([]analytics.WeekRow, 0, 7)
	data.Charts.DailyBars = make([]analytics.DayHours, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		key := civildate.DateKey(day, e.loc)
		row := analytics.WeekRow{Day: weekdayNames[i], Date: key}
		if s, ok := byDate[key]; ok {
			row.Entry = s.Entry
			row.Exit = s.Exit
			row.Total = s.Hours
			row.Attended = s.Entry != nil
		}
		weekHours += row.Total
		data.WeekTable = append(data.WeekTable, row)
		data.Charts.DailyBars = append(data.Charts.DailyBars, analytics.DayHours{Day: row.Day, Hours: row.Total})
	}

	var (
		monthHours    float64
		cumulative    float64
		attendedDays  int
		businessSoFar int
	)
	monthStart := civildate.StartOfMonth(local, e.loc)
	days := civildate.DaysInMonth(local, e.loc)
	data.CalendarDays = make([]analytics.CalendarDay, 0, days)
	data.Charts.MonthlyLine = []analytics.DailyStat{}
	for d := 1; d <= days; d++ {
		day := monthStart.AddDate(0, 0, d-1)
		key := civildate.DateKey(day, e.loc)
		cell := analytics.CalendarDay{
			Date:          key,
			DayNum:        d,
			IsBusinessDay: e.holidays.IsBusinessDay(day, e.loc),
			IsToday:       key == todayKey,
		}
		if s, ok := byDate[key]; ok {
			cell.Hours = s.Hours
			cell.IsWorked = s.Entry != nil
		}
		monthHours += cell.Hours
		data.CalendarDays = append(data.CalendarDays, cell)

		if d <= local.Day() {
			if cell.IsBusinessDay {
				businessSoFar++
			}
			if cell.IsWorked {
				attendedDays++
			}
			cumulative += cell.Hours
			data.Charts.MonthlyLine = append(data.Charts.MonthlyLine, analytics.DailyStat{Date: key, Hours: round1(cumulative)})
		}
	}

	acc := analytics.Accumulated{
		WeekHours:      round1(weekHours),
		MonthHours:     round1(monthHours),
		AttendedDays:   attendedDays,
		AbsentDays:     max(0, businessSoFar-attendedDays),
		TotalDaysSoFar: businessSoFar,
	}
	if attendedDays > 0 {
		acc.DailyAverage = round1(acc.MonthHours / float64(attendedDays))
	}
	data.Accumulated = acc
	data.Charts.AttendanceDonut = []analytics.NamedValue{
		{Name: "Asistencias", Value: acc.AttendedDays},
		{Name: "Ausencias", Value: acc.AbsentDays},
	}
	return data
}
