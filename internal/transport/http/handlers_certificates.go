package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/httputil"

	"certvault/internal/certificate"
)

// CertificatesHandler serves submission, listing, and deletion.
type CertificatesHandler struct {
	certs *certificate.Service
}

func NewCertificatesHandler(svc *certificate.Service) *CertificatesHandler {
	return &CertificatesHandler{certs: svc}
}

func (h *CertificatesHandler) Register(r chi.Router) {
	r.Post("/certificates", h.submit)
	r.Get("/certificates", h.listOwn)
	r.Get("/certificates/{certificateID}", h.get)
	r.Delete("/certificates/{certificateID}", h.delete)
}

// RegisterReview mounts the recruiter-only review listing; the router
// wraps it in the recruiter role gate.
func (h *CertificatesHandler) RegisterReview(r chi.Router) {
	r.Get("/certificates/review", h.listForReview)
}

func (h *CertificatesHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req certificate.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	cert, err := h.certs.Submit(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cert)
}

func (h *CertificatesHandler) listOwn(w http.ResponseWriter, r *http.Request) {
	out, err := h.certs.ListForStudent(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"certificates": out})
}

func (h *CertificatesHandler) listForReview(w http.ResponseWriter, r *http.Request) {
	groups, err := h.certs.ListForRecruiter(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"owners": groups})
}

func (h *CertificatesHandler) get(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "certificateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cert, err := h.certs.Get(r.Context(), certID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cert)
}

func (h *CertificatesHandler) delete(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "certificateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.certs.Delete(r.Context(), certID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
