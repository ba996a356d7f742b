package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certvault/internal/audit"
	"certvault/internal/certificate"
	"certvault/internal/evidence"
	"certvault/internal/identity"
	"certvault/internal/institution"
	"certvault/internal/verification"
)

type testAPI struct {
	router *chi.Mux
	audits *audit.InMemoryStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	identityStore := identity.NewInMemoryStore()
	revocations := identity.NewInMemoryRevocationStore()
	tokens := identity.NewTokenService("test-signing-key")
	identitySvc := identity.NewService(identityStore, revocations, tokens, time.Hour, nil)

	institutionStore := institution.NewInMemoryStore()
	institutionSvc := institution.NewService(institutionStore)

	certStore := certificate.NewInMemory()
	recordStore := verification.NewInMemory()
	audits := audit.NewInMemory()

	certSvc := certificate.NewService(certStore, identitySvc, institutionSvc, audits, 10, nil, logger)

	runner := verification.NewInMemoryTxRunner(certStore, recordStore, audits)
	verifySvc := verification.NewService(runner, certStore, recordStore, nil, 0, true, nil, logger)

	router := NewRouter(Deps{
		Auth:           NewAuthHandler(identitySvc, logger),
		Institutions:   NewInstitutionsHandler(institutionSvc),
		Certificates:   NewCertificatesHandler(certSvc),
		Verifications:  NewVerificationsHandler(verifySvc),
		TokenValidator: identity.NewMiddlewareValidator(tokens),
		Revocations:    revocations,
		Logger:         logger,
	})
	return &testAPI{router: router, audits: audits}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (api *testAPI) signUp(t *testing.T, email, role string) string {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     email,
		"password":  "correct-horse-battery",
		"full_name": "Test User",
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[map[string]any](t, rec)
	token, _ := session["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPIFlow(t *testing.T) {
	api := newTestAPI(t)
	student := api.signUp(t, "ananya@example.edu", "student")
	recruiter := api.signUp(t, "hr@acme.example", "recruiter")

	docDigest := evidence.Digest([]byte("degree.pdf contents"))

	// Student submits a certificate with evidence.
	rec := api.do(t, http.MethodPost, "/api/v1/certificates", student, map[string]any{
		"certificate_type": "degree",
		"title":            "B.Tech Computer Science",
		"file_digest":      docDigest,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cert := decode[map[string]any](t, rec)
	certID, _ := cert["id"].(string)
	require.NotEmpty(t, certID)
	assert.Equal(t, "pending", cert["status"])

	// The student sees it in their own listing.
	rec = api.do(t, http.MethodGet, "/api/v1/certificates", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[map[string][]map[string]any](t, rec)
	require.Len(t, listing["certificates"], 1)

	// The recruiter sees it grouped by owner on the review screen.
	rec = api.do(t, http.MethodGet, "/api/v1/certificates/review", recruiter, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	review := decode[map[string][]map[string]any](t, rec)
	require.Len(t, review["owners"], 1)

	// Verification with the matching reference digest passes.
	rec = api.do(t, http.MethodPost, "/api/v1/certificates/"+certID+"/verify", recruiter, map[string]any{
		"reference_digest": docDigest,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[map[string]any](t, rec)
	assert.Equal(t, "verified", result["status"])

	// The owner can read the verification history.
	rec = api.do(t, http.MethodGet, "/api/v1/certificates/"+certID+"/verifications", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[map[string][]map[string]any](t, rec)
	require.Len(t, history["records"], 1)
	assert.Equal(t, "blockchain_hash", history["records"][0]["verification_method"])

	// Submission and verification both landed in the audit outbox.
	events := api.audits.Events()
	require.Len(t, events, 2)

	// The owner deletes the certificate, verified status notwithstanding.
	rec = api.do(t, http.MethodDelete, "/api/v1/certificates/"+certID, student, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/certificates/"+certID, student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIAccessControl(t *testing.T) {
	api := newTestAPI(t)
	student := api.signUp(t, "ananya@example.edu", "student")

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/certificates", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/certificates", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("students cannot reach the review listing", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/v1/certificates/review", student, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("students cannot verify", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/certificates", student, map[string]any{
			"certificate_type": "degree",
			"title":            "B.Tech",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		cert := decode[map[string]any](t, rec)
		certID, _ := cert["id"].(string)

		rec = api.do(t, http.MethodPost, "/api/v1/certificates/"+certID+"/verify", student, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("signed-out tokens stop working", func(t *testing.T) {
		token := api.signUp(t, "leaver@example.edu", "student")
		rec := api.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/v1/certificates", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
