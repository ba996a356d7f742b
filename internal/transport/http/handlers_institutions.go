package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"certvault/pkg/platform/httputil"

	"certvault/internal/institution"
)

// InstitutionsHandler serves the verified-institutions picker.
type InstitutionsHandler struct {
	institutions *institution.Service
}

func NewInstitutionsHandler(svc *institution.Service) *InstitutionsHandler {
	return &InstitutionsHandler{institutions: svc}
}

func (h *InstitutionsHandler) Register(r chi.Router) {
	r.Get("/institutions", h.list)
}

func (h *InstitutionsHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.institutions.ListVerified(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"institutions": out})
}
