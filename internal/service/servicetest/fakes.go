// Package servicetest holds in-memory repositories and collaborators for
// service tests. Not-found lookups return pgx.ErrNoRows and unique
// violations return a 23505 pgconn error, as the postgres repositories do.
package servicetest

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/queue"
)

// Store keeps users, sedes and records together so record queries can
// filter by the sede of their user.
type Store struct {
	mu      sync.Mutex
	users   map[string]user.User
	sedes   map[string]sede.Sede
	records []attendance.Record

	// Err, when set, is returned by every repository call.
	Err error
}

func NewStore() *Store {
	return &Store{
		users: map[string]user.User{},
		sedes: map[string]sede.Sede{},
	}
}

func (s *Store) AddUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return u
}

func (s *Store) AddSede(sd sede.Sede) sede.Sede {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sedes[sd.ID] = sd
	return sd
}

func (s *Store) AddRecords(records ...attendance.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

func (s *Store) Records() []attendance.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attendance.Record(nil), s.records...)
}

func (s *Store) User(id string) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) Sede(id string) (sede.Sede, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd, ok := s.sedes[id]
	return sd, ok
}

func (s *Store) UserRepo() user.UserRepository { return userRepo{s} }
func (s *Store) SedeRepo() sede.SedeRepository { return sedeRepo{s} }
func (s *Store) RecordRepo() attendance.RecordRepository { return recordRepo{s} }

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return user.User{}, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r userRepo) List(_ context.Context, filter user.ListUsersFilter) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.SedeID != nil && (u.SedeID == nil || *u.SedeID != *filter.SedeID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r userRepo) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return user.User{}, r.s.Err
	}
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	if _, ok := r.s.users[newUser.ID]; ok {
		return user.User{}, uniqueViolation("users_pkey")
	}
	now := time.Now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r userRepo) Update(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return user.User{}, r.s.Err
	}
	existing, ok := r.s.users[u.ID]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = u
	return u, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, id)
	return nil
}

func (r userRepo) ClearSede(_ context.Context, sedeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var n int64
	for id, u := range r.s.users {
		if u.SedeID != nil && *u.SedeID == sedeID {
			u.SedeID = nil
			r.s.users[id] = u
			n++
		}
	}
	return n, nil
}

// ==================== SEDES ====================

type sedeRepo struct{ s *Store }

func (r sedeRepo) Create(_ context.Context, sd sede.Sede) (sede.Sede, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return sede.Sede{}, r.s.Err
	}
	for _, existing := range r.s.sedes {
		if existing.Name == sd.Name {
			return sede.Sede{}, uniqueViolation("sedes_name_key")
		}
	}
	if sd.ID == "" {
		sd.ID = uuid.NewString()
	}
	now := time.Now()
	sd.CreatedAt, sd.UpdatedAt = now, now
	r.s.sedes[sd.ID] = sd
	return sd, nil
}

func (r sedeRepo) GetByID(_ context.Context, id string) (sede.Sede, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return sede.Sede{}, r.s.Err
	}
	sd, ok := r.s.sedes[id]
	if !ok {
		return sede.Sede{}, pgx.ErrNoRows
	}
	return sd, nil
}

func (r sedeRepo) List(_ context.Context) ([]sede.Sede, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]sede.Sede, 0, len(r.s.sedes))
	for _, sd := range r.s.sedes {
		out = append(out, sd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r sedeRepo) Update(_ context.Context, sd sede.Sede) (sede.Sede, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return sede.Sede{}, r.s.Err
	}
	existing, ok := r.s.sedes[sd.ID]
	if !ok {
		return sede.Sede{}, pgx.ErrNoRows
	}
	for id, other := range r.s.sedes {
		if id != sd.ID && other.Name == sd.Name {
			return sede.Sede{}, uniqueViolation("sedes_name_key")
		}
	}
	sd.CreatedAt = existing.CreatedAt
	sd.UpdatedAt = time.Now()
	r.s.sedes[sd.ID] = sd
	return sd, nil
}

func (r sedeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.sedes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.sedes, id)
	return nil
}

// ==================== RECORDS ====================

type recordRepo struct{ s *Store }

func (r recordRepo) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return attendance.Record{}, r.s.Err
	}
	for _, existing := range r.s.records {
		if existing.UserID == record.UserID && existing.Type == record.Type && existing.Date == record.Date {
			return attendance.Record{}, uniqueViolation("attendance_records_user_type_date_key")
		}
	}
	record.CreatedAt = time.Now()
	r.s.records = append(r.s.records, record)
	return record, nil
}

func (r recordRepo) matches(rec attendance.Record, filter attendance.RecordFilter) bool {
	if filter.UserID != nil && rec.UserID != *filter.UserID {
		return false
	}
	if filter.SedeID != nil {
		u, ok := r.s.users[rec.UserID]
		if !ok || u.SedeID == nil || *u.SedeID != *filter.SedeID {
			return false
		}
	}
	if filter.From != nil && rec.Timestamp.Before(*filter.From) {
		return false
	}
	if filter.To != nil && rec.Timestamp.After(*filter.To) {
		return false
	}
	return true
}

func (r recordRepo) filtered(filter attendance.RecordFilter) []attendance.Record {
	out := make([]attendance.Record, 0)
	for _, rec := range r.s.records {
		if r.matches(rec, filter) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (r recordRepo) List(_ context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.filtered(filter), nil
}

func (r recordRepo) ListPaged(_ context.Context, filter attendance.RecordFilter, page, limit int) ([]attendance.Record, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	all := r.filtered(filter)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	total := int64(len(all))
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return all[start:end], total, nil
}

func (r recordRepo) remove(keep func(attendance.Record) bool) []attendance.Record {
	var removed []attendance.Record
	kept := r.s.records[:0]
	for _, rec := range r.s.records {
		if keep(rec) {
			kept = append(kept, rec)
		} else {
			removed = append(removed, rec)
		}
	}
	r.s.records = kept
	return removed
}

func (r recordRepo) DeleteByUserAndDate(_ context.Context, userID string, date string) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.remove(func(rec attendance.Record) bool {
		return rec.UserID != userID || rec.Date != date
	}), nil
}

func (r recordRepo) DeleteByUser(_ context.Context, userID string) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.remove(func(rec attendance.Record) bool { return rec.UserID != userID }), nil
}

// ==================== COLLABORATORS ====================

// Tx runs the function inline and counts calls.
type Tx struct {
	Calls int
}

func (t *Tx) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

// Files records uploads and deletions in memory.
type Files struct {
	mu       sync.Mutex
	Uploaded map[string][]byte
	Deleted  []string

	// UploadErr, when set, fails every upload.
	UploadErr error
}

func NewFiles() *Files {
	return &Files{Uploaded: map[string][]byte{}}
}

func (f *Files) UploadAttendancePhoto(_ context.Context, userID string, date string, recordType string, file io.Reader, _ string) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "attendance/" + date + "/" + userID + "-" + recordType + ".jpg"
	f.Uploaded[path] = data
	return path, nil
}

func (f *Files) UploadPayrollExport(_ context.Context, filename string, data []byte, _ string) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "payroll/" + filename
	f.Uploaded[path] = bytes.Clone(data)
	return path, nil
}

func (f *Files) DeleteFile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Uploaded, path)
	f.Deleted = append(f.Deleted, path)
	return nil
}

func (f *Files) GetFileURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

// Publisher records every published event.
type Publisher struct {
	mu     sync.Mutex
	Events []queue.Event
	Err    error
}

func (p *Publisher) Publish(_ context.Context, event queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}
