package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

const MaxPhotoSize = 10 << 20 // 10MB

type ClockRequest struct {
	Type       RecordType            `json:"type" validate:"required,oneof=in out"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	Accuracy   *float64              `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Notes      *string               `json:"notes,omitempty" validate:"omitempty,max=500"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockRequest) Point() geo.Point {
	return geo.Point{Lat: r.Latitude, Lng: r.Longitude}
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	// Coordinates are checked here so NaN/Inf never reach the distance calculation
	if err := r.Point().Validate(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: err.Error(),
		})
	}

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: ErrPhotoRequired.Error(),
		})
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > MaxPhotoSize {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance photo size must not exceed 10MB",
			})
		}
	}

	return validator.Merge(validator.Struct(r), errs)
}

type TodayResponse struct {
	Session     Session   `json:"session"`
	Sede        *SedeInfo `json:"sede,omitempty"`
	CanClockIn  bool      `json:"can_clock_in"`
	CanClockOut bool      `json:"can_clock_out"`
}

type SedeInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     geo.Point `json:"location"`
	RadiusMeters float64   `json:"radius_meters"`
}

// RecordResponse is a record with its photo path resolved to a URL.
type RecordResponse struct {
	Record
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// ========================================
// LIST DTOs
// ========================================

type ListRecordsRequest struct {
	UserID *string `json:"user_id,omitempty"`
	SedeID *string `json:"sede_id,omitempty"`
	From   *string `json:"from,omitempty"` // YYYY-MM-DD
	To     *string `json:"to,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListRecordsRequest) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	var from, to time.Time
	if f.From != nil && *f.From != "" {
		var valid bool
		if from, valid = validator.IsValidDate(*f.From); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.To != nil && *f.To != "" {
		var valid bool
		if to, valid = validator.IsValidDate(*f.To); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter converts the civil-date bounds into instants in loc. The To day is
// included in full.
func (f *ListRecordsRequest) ToFilter(loc *time.Location) (RecordFilter, error) {
	filter := RecordFilter{UserID: f.UserID, SedeID: f.SedeID}
	if f.From != nil && *f.From != "" {
		from, err := civildate.ParseDate(*f.From, loc)
		if err != nil {
			return RecordFilter{}, ErrInvalidDateFilter
		}
		filter.From = &from
	}
	if f.To != nil && *f.To != "" {
		to, err := civildate.ParseDate(*f.To, loc)
		if err != nil {
			return RecordFilter{}, ErrInvalidDateFilter
		}
		end := civildate.EndOfDay(to, loc)
		filter.To = &end
	}
	return filter, nil
}

type ListRecordsResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ========================================
// DELETE DTOs
// ========================================

type DeleteDayRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *DeleteDayRequest) Validate() error {
	return validator.Struct(r)
}

type DeleteDayResponse struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	Deleted int    `json:"deleted"`
}
