package analytics

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DateRange is an inclusive instant range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r *DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ========== PER EMPLOYEE HOUR TOTALS ==========

type DailyStat struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Hours float64 `json:"hours"`
}

type WeeklyStat struct {
	Week  string  `json:"week"` // W{n}-{yyyy}
	Hours float64 `json:"hours"`
}

type MonthlyStat struct {
	Month string  `json:"month"` // YYYY-MM
	Hours float64 `json:"hours"`
}

// EmployeeStats are hour totals from sequential in/out pairing.
type EmployeeStats struct {
	UserID       string        `json:"user_id"`
	Name         string        `json:"name,omitempty"`
	TotalHours   float64       `json:"total_hours"`
	DailyStats   []DailyStat   `json:"daily_stats"`
	WeeklyStats  []WeeklyStat  `json:"weekly_stats"`
	MonthlyStats []MonthlyStat `json:"monthly_stats"`
}

// ========== EMPLOYEE DASHBOARD ==========

type TodayStats struct {
	Date   string                   `json:"date"`
	Entry  *string                  `json:"entry"`
	Exit   *string                  `json:"exit"`
	Hours  float64                  `json:"hours"`
	Status attendance.SessionStatus `json:"status"`
}

type WeekRow struct {
	Day      string  `json:"day"`
	Date     string  `json:"date"`
	Entry    *string `json:"entry"`
	Exit     *string `json:"exit"`
	Total    float64 `json:"total"`
	Attended bool    `json:"attended"`
}

type CalendarDay struct {
	Date          string  `json:"date"`
	DayNum        int     `json:"day_num"`
	Hours         float64 `json:"hours"`
	IsWorked      bool    `json:"is_worked"`
	IsBusinessDay bool    `json:"is_business_day"`
	IsToday       bool    `json:"is_today"`
}

type Accumulated struct {
	WeekHours      float64 `json:"week_hours"`
	MonthHours     float64 `json:"month_hours"`
	DailyAverage   float64 `json:"daily_average"`
	AttendedDays   int     `json:"attended_days"`
	AbsentDays     int     `json:"absent_days"`
	TotalDaysSoFar int     `json:"total_days_so_far"`
}

type DayHours struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Charts struct {
	DailyBars       []DayHours   `json:"daily_bars"`
	MonthlyLine     []DailyStat  `json:"monthly_line"`
	AttendanceDonut []NamedValue `json:"attendance_donut"`
}

type DashboardData struct {
	UserID       string        `json:"user_id"`
	Today        TodayStats    `json:"today"`
	WeekTable    []WeekRow     `json:"week_table"`
	CalendarDays []CalendarDay `json:"calendar_days"`
	Accumulated  Accumulated   `json:"accumulated"`
	Charts       Charts        `json:"charts"`
}

// ========== ORGANIZATION ==========

type AggregateStats struct {
	TotalHours float64     `json:"total_hours"`
	DailyTrend []DailyStat `json:"daily_trend"`
}

type HeatmapCell struct {
	Date      string  `json:"date"`
	Count     float64 `json:"count"`
	Intensity int     `json:"intensity"` // 0-4
}

type MostActiveEmployee struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	TotalHours float64 `json:"total_hours"`
}

type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

type OrgStatsFilter struct {
	Range  TimeRange        `json:"range" validate:"omitempty,oneof=all week month"`
	SedeID *string          `json:"sede_id,omitempty"`
	UserID *string          `json:"user_id,omitempty"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
}

func (f *OrgStatsFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Range == "" {
		f.Range = RangeAll
	}
	if f.Rate != nil && f.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate must not be negative",
		})
	}
	return validator.Merge(validator.Struct(f), errs)
}

type OrgStats struct {
	Range        TimeRange           `json:"range"`
	Employees    []EmployeeStats     `json:"employees"`
	Aggregated   AggregateStats      `json:"aggregated"`
	HourlyRate   decimal.Decimal     `json:"hourly_rate"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	MostActive   *MostActiveEmployee `json:"most_active"`
	AverageHours float64             `json:"average_hours"`
	Heatmap      []HeatmapCell       `json:"heatmap"`
}

type EmployeeStatsRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	From   *string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To     *string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *EmployeeStatsRequest) Validate() error {
	return validator.Struct(r)
}

// TodaySummaryRow is the admin view of one employee's current civil day.
type TodaySummaryRow struct {
	UserID              string             `json:"user_id"`
	Name                string             `json:"name"`
	SedeID              *string            `json:"sede_id,omitempty"`
	SedeName            *string            `json:"sede_name,omitempty"`
	Session             attendance.Session `json:"session"`
	EntryDistanceMeters *float64           `json:"entry_distance_meters,omitempty"`
	ExitDistanceMeters  *float64           `json:"exit_distance_meters,omitempty"`
}

type TodaySummary struct {
	Date       string            `json:"date"`
	Employees  []TodaySummaryRow `json:"employees"`
	NotStarted int               `json:"not_started"`
	InProgress int               `json:"in_progress"`
	Finished   int               `json:"finished"`
}
