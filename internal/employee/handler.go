package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) []*Employee
	Team(ctx context.Context, caller *internal.Caller) ([]*Employee, error)
	CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	UpdateEmployee(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetMe handles GET /me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetEmployee(r.Context(), caller.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

// GetTeam handles GET /team
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	members, err := h.Service.Team(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TeamResponse{Members: toResponses(members)})
}

// ListEmployees handles GET /admin/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: toResponses(h.Service.ListEmployees(r.Context()))})
}

// GetEmployee handles GET /admin/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

// CreateEmployee handles POST /admin/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.CreateEmployee(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e.ToResponse())
}

// UpdateEmployee handles PUT /admin/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto UpdateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

// DeleteEmployee handles DELETE /admin/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if caller, ok := internal.CallerFromContext(r.Context()); ok && caller.EmployeeID == id {
		h.WriteError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	if err := h.Service.DeleteEmployee(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponses(employees []*Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ToResponse())
	}
	return out
}
