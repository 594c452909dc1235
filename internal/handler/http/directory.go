package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/directory"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/sede"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
)

type DirectoryHandler interface {
	// User endpoints
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)

	// Sede endpoints
	ListSedes(w http.ResponseWriter, r *http.Request)
	GetSede(w http.ResponseWriter, r *http.Request)
	CreateSede(w http.ResponseWriter, r *http.Request)
	UpdateSede(w http.ResponseWriter, r *http.Request)
	DeleteSede(w http.ResponseWriter, r *http.Request)
}

type directoryHandlerImpl struct {
	directoryService directory.DirectoryService
}

func NewDirectoryHandler(directoryService directory.DirectoryService) DirectoryHandler {
	return &directoryHandlerImpl{
		directoryService: directoryService,
	}
}

// ==================== USER HANDLERS ====================

func (h *directoryHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	var filter user.ListUsersFilter
	if role := queryString(r, "role"); role != nil {
		userRole := user.Role(*role)
		filter.Role = &userRole
	}
	filter.SedeID = queryString(r, "sede_id")

	users, err := h.directoryService.ListUsers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}

func (h *directoryHandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.directoryService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, u)
}

func (h *directoryHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateUser decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	u, err := h.directoryService.CreateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", u)
}

func (h *directoryHandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateUser decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	u, err := h.directoryService.UpdateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User updated successfully", u)
}

func (h *directoryHandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.directoryService.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deleted successfully", nil)
}

// ==================== SEDE HANDLERS ====================

func (h *directoryHandlerImpl) ListSedes(w http.ResponseWriter, r *http.Request) {
	sedes, err := h.directoryService.ListSedes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sedes)
}

func (h *directoryHandlerImpl) GetSede(w http.ResponseWriter, r *http.Request) {
	s, err := h.directoryService.GetSede(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

func (h *directoryHandlerImpl) CreateSede(w http.ResponseWriter, r *http.Request) {
	var req sede.CreateSedeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateSede decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	s, err := h.directoryService.CreateSede(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Sede created successfully", s)
}

func (h *directoryHandlerImpl) UpdateSede(w http.ResponseWriter, r *http.Request) {
	var req sede.UpdateSedeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSede decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	s, err := h.directoryService.UpdateSede(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sede updated successfully", s)
}

func (h *directoryHandlerImpl) DeleteSede(w http.ResponseWriter, r *http.Request) {
	if err := h.directoryService.DeleteSede(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sede deleted successfully", nil)
}
