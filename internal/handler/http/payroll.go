package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Archive(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Preview implements PayrollHandler.
func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.payrollService.Generate(r.Context(), exportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Export implements PayrollHandler.
func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.payrollService.Export(r.Context(), exportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, export.Filename, export.ContentType, export.Data)
}

// Archive implements PayrollHandler. An empty body archives the window given
// by the query parameters.
func (h *payrollHandlerImpl) Archive(w http.ResponseWriter, r *http.Request) {
	req := exportRequest(r)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Archive decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	path, err := h.payrollService.Archive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll archived successfully", map[string]string{"path": path})
}

func exportRequest(r *http.Request) payroll.ExportRequest {
	req := payroll.ExportRequest{
		Start:  queryString(r, "start"),
		End:    queryString(r, "end"),
		SedeID: queryString(r, "sede_id"),
		UserID: queryString(r, "user_id"),
	}
	if format := queryString(r, "format"); format != nil {
		req.Format = payroll.Format(*format)
	}
	return req
}
