package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/httputil"

	"certvault/internal/verification"
)

// VerificationsHandler serves the verify action and the per-certificate
// history.
type VerificationsHandler struct {
	verifications *verification.Service
}

func NewVerificationsHandler(svc *verification.Service) *VerificationsHandler {
	return &VerificationsHandler{verifications: svc}
}

func (h *VerificationsHandler) Register(r chi.Router) {
	r.Post("/certificates/{certificateID}/verify", h.verify)
	r.Get("/certificates/{certificateID}/verifications", h.history)
}

func (h *VerificationsHandler) verify(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "certificateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req verification.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.verifications.Verify(r.Context(), certID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *VerificationsHandler) history(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "certificateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recs, err := h.verifications.History(r.Context(), certID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": recs})
}
