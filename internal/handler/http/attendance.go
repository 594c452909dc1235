package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/attendance"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
)

const defaultPageLimit = 20

type AttendanceHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Sessions(w http.ResponseWriter, r *http.Request)
	DeleteDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Clock implements AttendanceHandler.
func (h *attendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockRequest

	r.Body = http.MaxBytesReader(w, r.Body, attendance.MaxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(attendance.MaxPhotoSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// JSON payload travels in the 'data' field next to the photo
	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.HandleError(w, attendance.ErrPhotoRequired)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req.File = file
	req.FileHeader = fileHeader

	result, err := h.attendanceService.Clock(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock in successful"
	if req.Type == attendance.TypeOut {
		message = "Clock out successful"
	}
	response.Created(w, message, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, today)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	req := listRecordsRequest(r)
	req.UserID = nil
	req.SedeID = nil

	results, err := h.attendanceService.MyRecords(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Records, recordsMeta(results))
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListRecords(r.Context(), listRecordsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Records, recordsMeta(results))
}

// Sessions implements AttendanceHandler.
func (h *attendanceHandlerImpl) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.attendanceService.Sessions(r.Context(), listRecordsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sessions)
}

// DeleteDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteDay(w http.ResponseWriter, r *http.Request) {
	req := attendance.DeleteDayRequest{
		UserID: chi.URLParam(r, "userID"),
		Date:   chi.URLParam(r, "date"),
	}

	result, err := h.attendanceService.DeleteDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance day deleted successfully", result)
}

// ==================== HELPER FUNCTIONS ====================

func listRecordsRequest(r *http.Request) attendance.ListRecordsRequest {
	return attendance.ListRecordsRequest{
		UserID: queryString(r, "user_id"),
		SedeID: queryString(r, "sede_id"),
		From:   queryString(r, "from"),
		To:     queryString(r, "to"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultPageLimit),
	}
}

func recordsMeta(results attendance.ListRecordsResponse) *response.Meta {
	return &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	}
}
