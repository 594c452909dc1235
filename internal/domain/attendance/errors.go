package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Clock errors
	ErrNoSedeAssigned    = errors.New("no sede assigned to this user")
	ErrOutsideGeofence   = errors.New("you are outside the allowed radius of your sede")
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")
	ErrInvalidRecordType = errors.New("type must be one of: in, out")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrPhotoRequired     = errors.New("attendance photo is required")

	// General errors
	ErrNoRecordsForDay   = errors.New("no attendance records for this user on this day")
	ErrInvalidDateFilter = errors.New("invalid date filter")
)

// GeofenceError carries the measured distance for a rejected clock event.
type GeofenceError struct {
	SedeName       string
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("%s: %.0fm from %s (max %.0fm)", ErrOutsideGeofence, e.DistanceMeters, e.SedeName, e.RadiusMeters)
}

func (e *GeofenceError) Unwrap() error {
	return ErrOutsideGeofence
}
