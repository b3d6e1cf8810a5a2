package category

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Catalog *Catalog
}

func NewHandler(baseHandler *transport.BaseHandler, catalog *Catalog) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Catalog:     catalog,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: h.Catalog.All(),
	})
}
