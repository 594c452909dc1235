package analytics

import (
	"sort"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
)

type dayBucket struct {
	userID   string
	userName string
	date     string
	entry    *attendance.Record
	exit     *attendance.Record
}

// bucketByDay groups sorted records by user and civil date, keeping the first
// in and the first out of each day. Extra events are ignored.
func (e *Engine) bucketByDay(sorted []attendance.Record) []*dayBucket {
	index := make(map[string]*dayBucket)
	var buckets []*dayBucket
	for i := range sorted {
		r := &sorted[i]
		date := civildate.DateKey(r.Timestamp, e.loc)
		key := r.UserID + "|" + date
		b, ok := index[key]
		if !ok {
			b = &dayBucket{userID: r.UserID, userName: r.UserName, date: date}
			index[key] = b
			buckets = append(buckets, b)
		}
		switch r.Type {
		case attendance.TypeIn:
			if b.entry == nil {
				b.entry = r
			}
		case attendance.TypeOut:
			if b.exit == nil {
				b.exit = r
			}
		}
	}
	return buckets
}

// session renders a bucket. A complete pair yields out-in hours (never
// negative); an open entry on today's date is measured against now; any
// other incomplete day yields 0.
func (e *Engine) session(b *dayBucket, now time.Time) attendance.Session {
	s := attendance.Session{
		UserID:      b.userID,
		UserName:    b.userName,
		Date:        b.date,
		EntryRecord: b.entry,
		ExitRecord:  b.exit,
		Status:      attendance.StatusOf(b.entry != nil, b.exit != nil),
	}
	if b.entry != nil {
		entry := civildate.ClockTime(b.entry.Timestamp, e.loc)
		s.Entry = &entry
	}
	if b.exit != nil {
		exit := civildate.ClockTime(b.exit.Timestamp, e.loc)
		s.Exit = &exit
	}

	switch {
	case b.entry != nil && b.exit != nil:
		s.Hours = round1(max(0, hoursBetween(b.entry.Timestamp, b.exit.Timestamp)))
	case b.entry != nil && b.date == civildate.DateKey(now, e.loc):
		s.Hours = round1(max(0, hoursBetween(b.entry.Timestamp, now)))
	}
	return s
}

// SessionsFor reconstructs one user's sessions with day-bucketed pairing,
// oldest day first.
func (e *Engine) SessionsFor(records []attendance.Record, userID string, now time.Time) []attendance.Session {
	buckets := e.bucketByDay(recordsOf(records, userID))
	sessions := make([]attendance.Session, 0, len(buckets))
	for _, b := range buckets {
		sessions = append(sessions, e.session(b, now))
	}
	return sessions
}

// sessionsByDate indexes one user's sessions by civil date.
func (e *Engine) sessionsByDate(records []attendance.Record, userID string, now time.Time) map[string]attendance.Session {
	sessions := e.SessionsFor(records, userID, now)
	byDate := make(map[string]attendance.Session, len(sessions))
	for _, s := range sessions {
		byDate[s.Date] = s
	}
	return byDate
}

// TodaySession returns the user's session for the civil day of now. With no
// records it is an empty "No ha iniciado" session.
func (e *Engine) TodaySession(records []attendance.Record, userID string, now time.Time) attendance.Session {
	today := civildate.DateKey(now, e.loc)
	if s, ok := e.sessionsByDate(records, userID, now)[today]; ok {
		return s
	}
	return attendance.Session{
		UserID: userID,
		Date:   today,
		Status: attendance.StatusNotStarted,
	}
}

// AllSessions reconstructs sessions for every user in records, newest day
// first and then by user name.
func (e *Engine) AllSessions(records []attendance.Record, now time.Time) []attendance.Session {
	sorted := make([]attendance.Record, len(records))
	copy(sorted, records)
	sortByTimestamp(sorted)

	buckets := e.bucketByDay(sorted)
	sessions := make([]attendance.Session, 0, len(buckets))
	for _, b := range buckets {
		sessions = append(sessions, e.session(b, now))
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date > sessions[j].Date
		}
		return sessions[i].UserName < sessions[j].UserName
	})
	return sessions
}
