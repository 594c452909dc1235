package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/auth"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var geofenceErr *attendance.GeofenceError
	if errors.As(err, &geofenceErr) {
		Forbidden(w, attendance.ErrOutsideGeofence.Error(), map[string]string{
			"sede":            geofenceErr.SedeName,
			"distance_meters": fmt.Sprintf("%.0f", geofenceErr.DistanceMeters),
			"radius_meters":   fmt.Sprintf("%.0f", geofenceErr.RadiusMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrPinAlreadyUsed):
		Conflict(w, "PIN already assigned to another user")
	case errors.Is(err, user.ErrSedeRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermission):
		Forbidden(w, err.Error(), nil)

	// Sede domain errors
	case errors.Is(err, sede.ErrSedeNotFound):
		NotFound(w, "Sede not found")
	case errors.Is(err, sede.ErrSedeNameExists):
		Conflict(w, "Sede name already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoSedeAssigned):
		Forbidden(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoRecordsForDay):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidRecordType),
		errors.Is(err, attendance.ErrInvalidLocation),
		errors.Is(err, attendance.ErrPhotoRequired),
		errors.Is(err, attendance.ErrInvalidDateFilter):
		BadRequest(w, err.Error(), nil)

	// Analytics and payroll errors
	case errors.Is(err, analytics.ErrInvalidTimeRange),
		errors.Is(err, analytics.ErrInvalidRate),
		errors.Is(err, payroll.ErrInvalidFormat),
		errors.Is(err, payroll.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// File errors
	case errors.Is(err, file.ErrInvalidImageType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
