package analytics

import "errors"

var (
	ErrInvalidTimeRange = errors.New("range must be one of: all, week, month")
	ErrInvalidRate      = errors.New("rate must be a non-negative number")
)
