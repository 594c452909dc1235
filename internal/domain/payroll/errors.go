package payroll

import "errors"

var (
	ErrInvalidFormat = errors.New("format must be one of: csv, xlsx")
	ErrInvalidRange  = errors.New("invalid payroll date range")
)
