package sede

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
)

// SedeResponse represents the response structure for a sede.
type SedeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Location     geo.Point `json:"location"`
	RadiusMeters float64   `json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewSedeResponse(s Sede) SedeResponse {
	return SedeResponse{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		Location:     s.Location,
		RadiusMeters: s.Radius(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type LocationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// CreateSedeRequest represents the request structure for creating a sede.
// A zero radius falls back to the default geofence radius.
type CreateSedeRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Address      string          `json:"address" validate:"max=255"`
	Location     LocationRequest `json:"location"`
	RadiusMeters float64         `json:"radius_meters" validate:"gte=0,lte=100000"`
}

func (r *CreateSedeRequest) Validate() error {
	return validator.Struct(r)
}

// UpdateSedeRequest represents the request structure for updating a sede.
type UpdateSedeRequest struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Address      *string          `json:"address,omitempty" validate:"omitempty,max=255"`
	Location     *LocationRequest `json:"location,omitempty"`
	RadiusMeters *float64         `json:"radius_meters,omitempty" validate:"omitempty,gte=0,lte=100000"`
}

func (r *UpdateSedeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	return validator.Merge(validator.Struct(r), errs)
}
