package attendance

import (
	"context"
)

// AttendanceService defines business logic for clock events
type AttendanceService interface {
	// Clock records an in/out event for the authenticated employee, gated by the sede geofence
	Clock(ctx context.Context, req ClockRequest) (RecordResponse, error)

	// Today returns the authenticated user's session for the current civil day
	Today(ctx context.Context) (TodayResponse, error)

	// MyRecords lists the authenticated user's own records
	MyRecords(ctx context.Context, req ListRecordsRequest) (ListRecordsResponse, error)

	// ListRecords lists records across users (admin)
	ListRecords(ctx context.Context, req ListRecordsRequest) (ListRecordsResponse, error)

	// Sessions returns day-bucketed sessions across users (admin)
	Sessions(ctx context.Context, req ListRecordsRequest) ([]Session, error)

	// DeleteDay removes all records of one user on one civil day (admin)
	DeleteDay(ctx context.Context, req DeleteDayRequest) (DeleteDayResponse, error)
}
