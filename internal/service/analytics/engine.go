package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/holiday"
)

// Engine turns raw clock events into sessions and hour aggregates. It keeps
// no state between calls; every method recomputes from the records and the
// "now" it is given.
type Engine struct {
	holidays *holiday.Calendar
	loc      *time.Location
}

func NewEngine(holidays *holiday.Calendar, loc *time.Location) *Engine {
	return &Engine{holidays: holidays, loc: loc}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) Holidays() *holiday.Calendar {
	return e.holidays
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func hoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// recordsOf returns a copy of the user's records sorted by timestamp ascending.
// Equal timestamps keep their input order.
func recordsOf(records []attendance.Record, userID string) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortByTimestamp(out)
	return out
}

func sortByTimestamp(records []attendance.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
