package leave

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, employeeID string, dto SubmitLeaveDTO) (*SubmitResult, error)
	Cancel(ctx context.Context, requestID, callerID string) (*Request, error)
	Decide(ctx context.Context, requestID string, caller *internal.Caller, dto DecisionDTO) (*Request, error)
	GetRequest(ctx context.Context, id string, caller *internal.Caller) (*Request, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*Request, error)
	ListPendingApprovals(ctx context.Context, approverID string) ([]*Request, error)
	FindConflicts(ctx context.Context, employeeID, startDate, endDate, excludeID string) ([]Conflict, error)
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

// ListMyRequests handles GET /leaves
func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.ListForEmployee(r.Context(), caller.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}

// SubmitRequest handles POST /leaves
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto SubmitLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Submit(r.Context(), caller.EmployeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

// CheckConflicts handles GET /leaves/conflicts
func (h *Handler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	conflicts, err := h.Service.FindConflicts(r.Context(), caller.EmployeeID, q.Get("start_date"), q.Get("end_date"), q.Get("exclude"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := ConflictsResponse{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
		Messages:     make([]string, 0, len(conflicts)),
	}
	for _, c := range conflicts {
		resp.Messages = append(resp.Messages, c.Message())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetRequest handles GET /leaves/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

// CancelRequest handles POST /leaves/{id}/cancel
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "id"), caller.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

// ListApprovals handles GET /approvals
func (h *Handler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	requests, err := h.Service.ListPendingApprovals(r.Context(), caller.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}

// Decide handles POST /approvals/{id}/decision
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto DecisionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.Decide(r.Context(), chi.URLParam(r, "id"), caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}
