package analytics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// yearParam reads ?year, returning 0 for the current year.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewValidationFieldError("year", "year must be a number", internal.ErrCodeInvalidDate)
	}
	return year, nil
}

// GetLOP handles GET /analytics/lop
func (h *Handler) GetLOP(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}
	year, err := yearParam(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.LOP(r.Context(), caller.EmployeeID, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetSummary handles GET /analytics/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}
	year, err := yearParam(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Summary(r.Context(), caller.EmployeeID, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetTeam handles GET /analytics/team
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}
	year, err := yearParam(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Team(r.Context(), caller, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetOrganization handles GET /admin/analytics
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Organization(r.Context(), year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// ExportRegister handles GET /admin/reports/leaves.xlsx
func (h *Handler) ExportRegister(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if year == 0 {
		year = h.Service.CurrentYear()
	}

	var buf bytes.Buffer
	if err := h.Service.ExportRegister(r.Context(), year, &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", XLSXMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leave-register-%d.xlsx"`, year))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to stream leave register", "error", err)
	}
}
