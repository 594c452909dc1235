package attendance

import (
	"context"
	"time"
)

// RecordFilter narrows record queries. Nil fields are not applied; From and To are inclusive.
type RecordFilter struct {
	UserID *string
	SedeID *string
	From   *time.Time
	To     *time.Time
}

// RecordRepository defines data access for clock events. Records are never
// updated; only inserted and deleted.
type RecordRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// List returns matching records ordered by timestamp ascending
	List(ctx context.Context, filter RecordFilter) ([]Record, error)

	// ListPaged returns matching records newest first plus the total count
	ListPaged(ctx context.Context, filter RecordFilter, page, limit int) ([]Record, int64, error)

	// DeleteByUserAndDate removes every record of the user on a civil date and returns them
	DeleteByUserAndDate(ctx context.Context, userID string, date string) ([]Record, error)

	// DeleteByUser removes every record of the user and returns them
	DeleteByUser(ctx context.Context, userID string) ([]Record, error)
}
