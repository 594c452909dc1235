package sede

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
)

// Sede is a work site. Its location and radius define a circular geofence.
type Sede struct {
	ID           string
	Name         string
	Address      string
	Location     geo.Point
	RadiusMeters float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Radius returns the configured radius, or the default when unset.
func (s Sede) Radius() float64 {
	return geo.EffectiveRadius(s.RadiusMeters)
}

// Contains reports whether p lies inside the sede geofence.
func (s Sede) Contains(p geo.Point) bool {
	return geo.IsWithinRadius(p, s.Location, s.Radius())
}
