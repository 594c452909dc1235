package geo

import (
	"errors"
	"math"
)

// Mean Earth radius in meters.
const earthRadius = 6371000

// DefaultRadiusMeters is the geofence radius used when a sede has none configured.
const DefaultRadiusMeters = 100.0

var (
	ErrNonFiniteCoordinate = errors.New("coordinate must be a finite number")
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Validate checks that the point can be fed to DistanceMeters.
func (p Point) Validate() error {
	if !p.IsFinite() {
		return ErrNonFiniteCoordinate
	}
	if p.Lat < -90 || p.Lat > 90 {
		return ErrLatitudeOutOfRange
	}
	if p.Lng < -180 || p.Lng > 180 {
		return ErrLongitudeOutOfRange
	}
	return nil
}

// DistanceMeters returns the haversine great-circle distance between a and b.
// Callers must reject non-finite input first; NaN or Inf coordinates propagate
// NaN into the result.
func DistanceMeters(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLng := (b.Lng - a.Lng) * (math.Pi / 180.0)

	lat1Rad := a.Lat * (math.Pi / 180.0)
	lat2Rad := b.Lat * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	// rounding can push h just past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// IsWithinRadius reports whether subject lies inside the circle around center.
// The boundary counts as inside.
func IsWithinRadius(subject, center Point, radiusMeters float64) bool {
	return DistanceMeters(subject, center) <= radiusMeters
}

// EffectiveRadius falls back to DefaultRadiusMeters for unset radii.
func EffectiveRadius(radiusMeters float64) float64 {
	if radiusMeters <= 0 {
		return DefaultRadiusMeters
	}
	return radiusMeters
}
