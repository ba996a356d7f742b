package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/sentinel"
	"certvault/pkg/requestcontext"

	"certvault/internal/audit"
	"certvault/internal/certificate"
	"certvault/internal/evidence"
)

// VerifyRequest is the recruiter's input to a verification run.
type VerifyRequest struct {
	// ReferenceDigest, when present, is the authoritative digest to check
	// the stored evidence against. When absent the legacy status rule
	// decides the outcome instead.
	ReferenceDigest string `json:"reference_digest,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Result is what a completed verification returns: the appended record and
// the certificate's new status.
type Result struct {
	Record *Record              `json:"record"`
	Status id.CertificateStatus `json:"status"`
}

// Service runs verifications and serves their history. Every decision is
// atomic: the record append, the status change, and the audit event commit
// together or not at all.
type Service struct {
	runner     TxRunner
	certs      certificate.Store
	records    Store
	comparator Comparator
	latency    time.Duration
	legacyRule bool
	metrics    *Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewService(runner TxRunner, certs certificate.Store, records Store, comparator Comparator, latency time.Duration, legacyRule bool, m *Metrics, logger *slog.Logger) *Service {
	if comparator == nil {
		comparator = NewHashComparator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		runner:     runner,
		certs:      certs,
		records:    records,
		comparator: comparator,
		latency:    latency,
		legacyRule: legacyRule,
		metrics:    m,
		logger:     logger,
		tracer:     otel.Tracer("certvault/verification"),
	}
}

// Verify runs the verification flow for one certificate. The role gate
// comes before any store access so unauthorized callers learn nothing, not
// even whether the certificate exists.
func (s *Service) Verify(ctx context.Context, certID id.CertificateID, req VerifyRequest) (*Result, error) {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requestcontext.Role(ctx) != id.RoleRecruiter {
		return nil, dErrors.New(dErrors.CodeForbidden, "recruiter role required")
	}

	if req.ReferenceDigest != "" {
		if err := evidence.ValidateDigest(req.ReferenceDigest); err != nil {
			return nil, err
		}
	} else if !s.legacyRule {
		return nil, dErrors.New(dErrors.CodeValidation, "reference_digest is required")
	}

	ctx, span := s.tracer.Start(ctx, "verification.Verify",
		trace.WithAttributes(attribute.String("certificate.id", certID.String())))
	defer span.End()

	started := time.Now()
	if err := s.analysisDelay(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var result *Result
	err := s.runner.RunInTx(ctx, func(stores TxStores) error {
		cert, err := stores.Certificates.FindByID(ctx, certID)
		if err != nil {
			return err
		}

		outcome, notes := s.decide(cert, req)
		rec := &Record{
			ID:            id.NewVerificationID(),
			CertificateID: certID,
			VerifiedBy:    actorID,
			Status:        outcome,
			Method:        MethodBlockchainHash,
			Notes:         notes,
			VerifiedAt:    now,
		}
		rec.AnchorHash = anchorHash(rec)

		if err := stores.Records.Append(ctx, rec); err != nil {
			return err
		}
		if err := stores.Certificates.UpdateStatusVersioned(ctx, certID, outcome, cert.Version, now); err != nil {
			return err
		}
		if err := stores.Audit.Record(ctx, audit.NewEvent(audit.KindCertificateVerified,
			actorID, certID, map[string]string{"outcome": outcome.String()}, now)); err != nil {
			return err
		}
		result = &Result{Record: rec, Status: outcome}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "certificate changed during verification, try again")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "verification failed")
		}
	}

	span.SetAttributes(attribute.String("verification.outcome", result.Status.String()))
	s.metrics.IncDecision(result.Status.String())
	s.metrics.ObserveDuration(time.Since(started).Seconds())
	s.logger.InfoContext(ctx, "certificate verified",
		"certificate_id", certID.String(),
		"verified_by", actorID.String(),
		"outcome", result.Status.String())
	return result, nil
}

// History returns a certificate's verification records, newest first.
// Students see their own certificates; recruiters see any.
func (s *Service) History(ctx context.Context, certID id.CertificateID) ([]*Record, error) {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	cert, err := s.certs.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}
	if cert.OwnerID != actorID && requestcontext.Role(ctx) != id.RoleRecruiter {
		return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
	}

	recs, err := s.records.ListByCertificate(ctx, certID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verification records")
	}
	return recs, nil
}

// decide picks the outcome for one run. With a reference digest the
// comparison is authoritative. Without one the inherited rule applies:
// a flagged certificate stays flagged, anything else passes.
func (s *Service) decide(cert *certificate.Certificate, req VerifyRequest) (id.CertificateStatus, string) {
	if req.ReferenceDigest != "" {
		if s.comparator.Compare(cert.FileDigest, req.ReferenceDigest) {
			return id.StatusVerified, notesOr(req.Notes, "evidence digest matches the reference")
		}
		if cert.FileDigest == "" {
			return id.StatusFlagged, notesOr(req.Notes, "no evidence digest on file to compare")
		}
		return id.StatusFlagged, notesOr(req.Notes, "evidence digest does not match the reference")
	}
	if cert.Status == id.StatusFlagged {
		return id.StatusFlagged, notesOr(req.Notes, "previously flagged, manual review required")
	}
	return id.StatusVerified, notesOr(req.Notes, "verified by hash comparison")
}

// analysisDelay simulates the document analysis phase. The wait honors
// cancellation so an abandoned request never reaches the transactional
// block.
func (s *Service) analysisDelay(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "verification canceled")
	case <-timer.C:
		return nil
	}
}

// anchorHash derives the recorded anchor from the record's identity, so
// every decision carries an independently recomputable fingerprint.
func anchorHash(rec *Record) string {
	return "0x" + evidence.Digest([]byte(rec.ID.String()+rec.CertificateID.String()+rec.VerifiedAt.UTC().Format(time.RFC3339Nano)))
}

func notesOr(notes, fallback string) string {
	if notes != "" {
		return notes
	}
	return fallback
}
