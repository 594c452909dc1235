package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/analytics"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/response"
	"github.com/shopspring/decimal"
)

type AnalyticsHandler interface {
	MyDashboard(w http.ResponseWriter, r *http.Request)
	EmployeeDashboard(w http.ResponseWriter, r *http.Request)
	EmployeeStats(w http.ResponseWriter, r *http.Request)
	OrgStats(w http.ResponseWriter, r *http.Request)
	Heatmap(w http.ResponseWriter, r *http.Request)
	TodaySummary(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// MyDashboard implements AnalyticsHandler.
func (h *analyticsHandlerImpl) MyDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.analyticsService.MyDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, data)
}

// EmployeeDashboard implements AnalyticsHandler.
func (h *analyticsHandlerImpl) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.analyticsService.EmployeeDashboard(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, data)
}

// EmployeeStats implements AnalyticsHandler.
func (h *analyticsHandlerImpl) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	req := analytics.EmployeeStatsRequest{
		UserID: chi.URLParam(r, "userID"),
		From:   queryString(r, "from"),
		To:     queryString(r, "to"),
	}

	stats, err := h.analyticsService.EmployeeStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// OrgStats implements AnalyticsHandler.
func (h *analyticsHandlerImpl) OrgStats(w http.ResponseWriter, r *http.Request) {
	filter, err := orgStatsFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.analyticsService.OrgStats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Heatmap implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Heatmap(w http.ResponseWriter, r *http.Request) {
	filter, err := orgStatsFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	cells, err := h.analyticsService.Heatmap(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cells)
}

// TodaySummary implements AnalyticsHandler.
func (h *analyticsHandlerImpl) TodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analyticsService.TodaySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

func orgStatsFilter(r *http.Request) (analytics.OrgStatsFilter, error) {
	filter := analytics.OrgStatsFilter{
		SedeID: queryString(r, "sede_id"),
		UserID: queryString(r, "user_id"),
	}
	if rangeParam := queryString(r, "range"); rangeParam != nil {
		filter.Range = analytics.TimeRange(*rangeParam)
	}
	if rate := queryString(r, "rate"); rate != nil {
		d, err := decimal.NewFromString(*rate)
		if err != nil {
			return filter, analytics.ErrInvalidRate
		}
		filter.Rate = &d
	}
	return filter, nil
}
