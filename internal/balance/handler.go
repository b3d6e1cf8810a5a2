package balance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	GetBalances(ctx context.Context, employeeID string) ([]BalanceView, error)
	ListAll(ctx context.Context) ([]BalanceView, error)
	SetAllocation(ctx context.Context, dto SetAllocationDTO) (*BalanceView, error)
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

// GetMyBalances handles GET /balances
func (h *Handler) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CallerOrUnauthorized(w, r)
	if !ok {
		return
	}

	balances, err := h.Service.GetBalances(r.Context(), caller.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BalancesResponse{Balances: balances})
}

// ListAllBalances handles GET /admin/balances
func (h *Handler) ListAllBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Service.ListAll(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BalancesResponse{Balances: balances})
}

// SetAllocation handles PUT /admin/balances
func (h *Handler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var dto SetAllocationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.SetAllocation(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}
