package certificate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/sentinel"
	"certvault/pkg/requestcontext"

	"certvault/internal/audit"
	"certvault/internal/identity"
	"certvault/internal/institution"
	"certvault/internal/platform/metrics"
)

// ProfileDirectory resolves certificate owners for recruiter listings.
// Satisfied by *identity.Service.
type ProfileDirectory interface {
	Profile(ctx context.Context, profileID id.ProfileID) (*identity.Profile, error)
}

// InstitutionDirectory resolves institution names. Satisfied by
// *institution.Service.
type InstitutionDirectory interface {
	Get(ctx context.Context, institutionID id.InstitutionID) (*institution.Institution, error)
}

// Recorder appends audit events. Satisfied by the audit outbox store.
type Recorder interface {
	Record(ctx context.Context, event audit.Event) error
}

// Service owns the certificate lifecycle outside of verification:
// submission, listing, and deletion.
type Service struct {
	store        Store
	profiles     ProfileDirectory
	institutions InstitutionDirectory
	auditor      Recorder
	scoreMax     float64
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewService(store Store, profiles ProfileDirectory, institutions InstitutionDirectory, auditor Recorder, scoreMax float64, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		profiles:     profiles,
		institutions: institutions,
		auditor:      auditor,
		scoreMax:     scoreMax,
		metrics:      m,
		logger:       logger,
	}
}

// SubmitRequest is the client-controlled portion of a submission. The owner
// is always the authenticated identity, never a request field.
type SubmitRequest struct {
	Type          string   `json:"certificate_type"`
	Title         string   `json:"title"`
	InstitutionID string   `json:"institution_id,omitempty"`
	RollNumber    string   `json:"roll_number,omitempty"`
	CertNumber    string   `json:"certificate_number,omitempty"`
	DegreeName    string   `json:"degree_name,omitempty"`
	FieldOfStudy  string   `json:"field_of_study,omitempty"`
	Grade         string   `json:"grade,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	IssueDate     *string  `json:"issue_date,omitempty"`
	ExpiryDate    *string  `json:"expiry_date,omitempty"`

	FileDigest string         `json:"file_digest,omitempty"`
	FileURL    string         `json:"file_url,omitempty"`
	Extracted  map[string]any `json:"extracted_fields,omitempty"`
}

// OwnerGroup is one student and their certificates, as presented to
// recruiters.
type OwnerGroup struct {
	Owner        *identity.Profile `json:"owner"`
	Certificates []*View           `json:"certificates"`
}

// View decorates a certificate with its resolved institution name.
type View struct {
	*Certificate
	InstitutionName string `json:"institution_name,omitempty"`
}

// Submit creates a new certificate in pending status, owned by the acting
// student.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Certificate, error) {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requestcontext.Role(ctx) != id.RoleStudent {
		return nil, dErrors.New(dErrors.CodeForbidden, "only students can submit certificates")
	}

	certType, err := id.ParseCertificateType(req.Type)
	if err != nil {
		return nil, err
	}

	var instID *id.InstitutionID
	if req.InstitutionID != "" {
		parsed, err := id.ParseInstitutionID(req.InstitutionID)
		if err != nil {
			return nil, err
		}
		if _, err := s.institutions.Get(ctx, parsed); err != nil {
			return nil, err
		}
		instID = &parsed
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "issue_date must be YYYY-MM-DD")
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "expiry_date must be YYYY-MM-DD")
	}

	now := requestcontext.Now(ctx)
	cert, err := NewCertificate(NewParams{
		ID:                id.NewCertificateID(),
		OwnerID:           actorID,
		InstitutionID:     instID,
		Type:              certType,
		Title:             req.Title,
		RollNumber:        req.RollNumber,
		CertificateNumber: req.CertNumber,
		DegreeName:        req.DegreeName,
		FieldOfStudy:      req.FieldOfStudy,
		Grade:             req.Grade,
		Score:             req.Score,
		IssueDate:         issueDate,
		ExpiryDate:        expiryDate,
		FileDigest:        req.FileDigest,
		FileURL:           req.FileURL,
		Extracted:         req.Extracted,
		ScoreMax:          s.scoreMax,
		Now:               now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, cert); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store certificate")
	}

	s.recordAudit(ctx, audit.NewEvent(audit.KindCertificateSubmitted, actorID, cert.ID,
		map[string]string{"title": cert.Title, "type": cert.Type.String()}, now))
	s.metrics.IncCertificatesSubmitted()
	s.logger.InfoContext(ctx, "certificate submitted",
		"certificate_id", cert.ID.String(), "owner_id", actorID.String())
	return cert, nil
}

// ListForStudent returns the acting student's own certificates, newest
// first.
func (s *Service) ListForStudent(ctx context.Context) ([]*View, error) {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	certs, err := s.store.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}
	return s.decorate(ctx, certs), nil
}

// ListForRecruiter returns every certificate grouped by owner, for the
// recruiter review screen. Groups are ordered by the owner's newest
// submission.
func (s *Service) ListForRecruiter(ctx context.Context) ([]OwnerGroup, error) {
	if requestcontext.Role(ctx) != id.RoleRecruiter {
		return nil, dErrors.New(dErrors.CodeForbidden, "recruiter role required")
	}

	certs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}

	var (
		order  []id.ProfileID
		byOwns = make(map[id.ProfileID][]*View)
	)
	for _, c := range certs {
		if _, seen := byOwns[c.OwnerID]; !seen {
			order = append(order, c.OwnerID)
		}
		byOwns[c.OwnerID] = append(byOwns[c.OwnerID], s.view(ctx, c))
	}

	groups := make([]OwnerGroup, 0, len(order))
	for _, ownerID := range order {
		owner, err := s.profiles.Profile(ctx, ownerID)
		if err != nil {
			// An owner row missing under a live certificate is a data
			// problem worth surfacing, not hiding.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve certificate owner")
		}
		groups = append(groups, OwnerGroup{Owner: owner, Certificates: byOwns[ownerID]})
	}
	return groups, nil
}

// Get returns one certificate. Students see only their own; recruiters see
// any.
func (s *Service) Get(ctx context.Context, certID id.CertificateID) (*View, error) {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	cert, err := s.store.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}

	if cert.OwnerID != actorID && requestcontext.Role(ctx) != id.RoleRecruiter {
		// Same response as a missing row so non-owners cannot probe IDs.
		return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
	}
	return s.view(ctx, cert), nil
}

// Delete removes the acting student's certificate. Any status may be
// deleted, including verified ones; the audit record preserves what was
// removed.
func (s *Service) Delete(ctx context.Context, certID id.CertificateID) error {
	actorID := requestcontext.ProfileID(ctx)
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	cert, err := s.store.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}
	if cert.OwnerID != actorID {
		return dErrors.New(dErrors.CodeNotFound, "certificate not found")
	}

	if err := s.store.Delete(ctx, certID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete certificate")
	}

	now := requestcontext.Now(ctx)
	s.recordAudit(ctx, audit.NewEvent(audit.KindCertificateDeleted, actorID, certID,
		map[string]string{"title": cert.Title, "status": cert.Status.String()}, now))
	s.metrics.IncCertificatesDeleted()
	s.logger.InfoContext(ctx, "certificate deleted",
		"certificate_id", certID.String(), "owner_id", actorID.String(),
		"status", cert.Status.String())
	return nil
}

func (s *Service) decorate(ctx context.Context, certs []*Certificate) []*View {
	out := make([]*View, 0, len(certs))
	for _, c := range certs {
		out = append(out, s.view(ctx, c))
	}
	return out
}

func (s *Service) view(ctx context.Context, c *Certificate) *View {
	v := &View{Certificate: c}
	if c.InstitutionID != nil {
		if inst, err := s.institutions.Get(ctx, *c.InstitutionID); err == nil {
			v.InstitutionName = inst.Name
		}
	}
	return v
}

// recordAudit logs and swallows audit failures on non-transactional paths;
// the change itself has already committed.
func (s *Service) recordAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to record audit event",
			"kind", event.Kind, "certificate_id", event.CertificateID.String(), "error", err)
	}
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
