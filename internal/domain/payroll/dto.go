package payroll

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	StartLabelOpen = "Inicio Histórico"
	EndLabelOpen   = "Hoy"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportRequest selects the employees and the civil date window of a
// payroll export. Missing bounds are open.
type ExportRequest struct {
	Start  *string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End    *string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SedeID *string `json:"sede_id,omitempty"`
	UserID *string `json:"user_id,omitempty"`
	Format Format  `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Start != nil && r.End != nil {
		start, okStart := validator.IsValidDate(*r.Start)
		end, okEnd := validator.IsValidDate(*r.End)
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end",
				Message: "end must not be before start",
			})
		}
	}
	return validator.Merge(validator.Struct(r), errs)
}

// LastWeek returns the Monday to Sunday request preceding the week of now.
func LastWeek(now time.Time, loc *time.Location) ExportRequest {
	thisMonday := civildate.StartOfWeek(now, loc)
	start := civildate.DateKey(thisMonday.AddDate(0, 0, -7), loc)
	end := civildate.DateKey(thisMonday.AddDate(0, 0, -1), loc)
	return ExportRequest{Start: &start, End: &end, Format: FormatXLSX}
}

// Row is one employee line of the export.
type Row struct {
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Role       user.Role       `json:"role"`
	TotalHours float64         `json:"total_hours"`
	DaysWorked int             `json:"days_worked"`
	StartLabel string          `json:"start_label"`
	EndLabel   string          `json:"end_label"`
	Cost       decimal.Decimal `json:"cost"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	GeneratedAt time.Time
}
