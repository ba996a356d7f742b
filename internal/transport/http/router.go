// Package http wires the chi router: public auth endpoints, the
// authenticated API surface, and the operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	id "certvault/pkg/domain"

	"certvault/internal/platform/metrics"
	"certvault/internal/platform/middleware"
)

// Deps collects everything the router mounts.
type Deps struct {
	Auth          *AuthHandler
	Institutions  *InstitutionsHandler
	Certificates  *CertificatesHandler
	Verifications *VerificationsHandler

	TokenValidator middleware.TokenValidator
	Revocations    middleware.TokenRevocationChecker
	Metrics        *metrics.Metrics
	Logger         *slog.Logger

	// Health reports readiness of the backing stores. Nil checks pass.
	Health func() error

	RequestTimeout time.Duration
}

func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(middleware.Latency(deps.Metrics, "auth"))
			deps.Auth.RegisterPublic(public)
		})

		api.Group(func(private chi.Router) {
			private.Use(middleware.Latency(deps.Metrics, "api"))
			private.Use(middleware.RequireAuth(deps.TokenValidator, deps.Revocations, logger))

			deps.Auth.RegisterPrivate(private)
			deps.Institutions.Register(private)
			deps.Certificates.Register(private)
			deps.Verifications.Register(private)

			private.Group(func(recruiter chi.Router) {
				recruiter.Use(middleware.RequireRole(logger, id.RoleRecruiter))
				deps.Certificates.RegisterReview(recruiter)
			})
		})
	})

	return r
}
