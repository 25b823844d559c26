package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Estar-Games/sc-customize-nft/internal/render/metrics"
	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/attrs"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

var tracer = otel.Tracer("github.com/Estar-Games/sc-customize-nft/internal/render/service")

// Store persists the queue, the URIs and the authorised setters.
type Store interface {
	Enqueue(ctx context.Context, job models.Job) error
	QueuedByName(ctx context.Context, name string) (*models.Job, error)
	Queue(ctx context.Context) ([]models.Job, error)
	URI(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, assignments []models.URIAssignment) error
	AddSetter(ctx context.Context, principal domain.Principal) error
	IsSetter(ctx context.Context, principal domain.Principal) (bool, error)
}

// Canonicalizer rewrites encoded attributes in canonical form so that the
// same slot state always maps to the same key.
type Canonicalizer interface {
	Canonicalize(ctx context.Context, raw string) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages paid render requests and the image URIs recorded for them.
type Service struct {
	owner  domain.Principal
	store  Store
	codecs Canonicalizer

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(owner domain.Principal, store Store, codecs Canonicalizer, opts ...Option) (*Service, error) {
	if owner.IsNil() {
		return nil, errors.New("owner is required")
	}
	if store == nil || codecs == nil {
		return nil, errors.New("store and canonicalizer are required")
	}
	s := &Service{
		owner:  owner,
		store:  store,
		codecs: codecs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enqueue requests a render of attrs for name. fee must equal
// models.EnqueuePrice; a combination already rendered, or a name already
// waiting in the queue, is rejected.
func (s *Service) Enqueue(ctx context.Context, caller domain.Principal, raw string, name string, fee uint64) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "render.Enqueue", trace.WithAttributes(attribute.String("render.name", name)))
	defer span.End()

	if fee != models.EnqueuePrice {
		return nil, dErrors.Wrap(ErrWrongFee, dErrors.CodeValidation, fmt.Sprintf("fee must be %d", models.EnqueuePrice))
	}
	if name == "" {
		return nil, dErrors.Wrap(ErrEmptyName, dErrors.CodeValidation, "invalid render request")
	}
	canonical, err := s.canonicalize(ctx, raw)
	if err != nil {
		return nil, err
	}

	job := models.Job{
		Name:       name,
		Attributes: canonical,
		EnqueuedAt: requestcontext.Now(ctx),
		Requester:  caller.String(),
	}
	if _, err := s.store.URI(ctx, job.Key()); err == nil {
		return nil, dErrors.Wrap(ErrAlreadyRendered, dErrors.CodeConflict, "cannot enqueue image")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read uri")
	}

	if err := s.store.Enqueue(ctx, job); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(ErrAlreadyQueued, dErrors.CodeConflict, "cannot enqueue image")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enqueue render")
	}

	s.logAudit(ctx, string(audit.EventRenderEnqueued),
		"caller", caller,
		"subject", name,
		"detail", canonical,
	)
	if s.metrics != nil {
		s.metrics.Enqueued.Inc()
	}
	return &job, nil
}

// Queue lists the jobs waiting to be rendered, oldest first.
func (s *Service) Queue(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.store.Queue(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list render queue")
	}
	if s.metrics != nil {
		s.metrics.QueueDepth.Set(float64(len(jobs)))
	}
	return jobs, nil
}

// AuthorizeSetter lets principal record URIs. Owner only.
func (s *Service) AuthorizeSetter(ctx context.Context, caller domain.Principal, principal domain.Principal) error {
	if caller != s.owner {
		return dErrors.Wrap(ErrNotOwner, dErrors.CodeForbidden, "caller is not the owner")
	}
	if principal.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "principal is required")
	}
	if err := s.store.AddSetter(ctx, principal); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to authorize setter")
	}
	s.logAudit(ctx, string(audit.EventURISetterAuthorized),
		"caller", caller,
		"subject", principal,
	)
	return nil
}

// SetURIs records the rendered image of each queued job and removes it from
// the queue. The batch is validated as a whole before anything is written.
func (s *Service) SetURIs(ctx context.Context, caller domain.Principal, assignments []models.URIAssignment) error {
	ctx, span := tracer.Start(ctx, "render.SetURIs", trace.WithAttributes(attribute.Int("render.assignments", len(assignments))))
	defer span.End()

	if err := s.requireSetter(ctx, caller); err != nil {
		return err
	}
	if len(assignments) == 0 {
		return dErrors.New(dErrors.CodeValidation, "no uri to set")
	}

	canonical := make([]models.URIAssignment, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	for i, a := range assignments {
		checked, err := s.checkAssignment(ctx, a, seen)
		if err != nil {
			return err
		}
		canonical[i] = checked
	}

	if err := s.store.Complete(ctx, canonical); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "render queue changed while setting uris")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set uris")
	}

	for _, a := range canonical {
		s.logAudit(ctx, string(audit.EventRenderURISet),
			"caller", caller,
			"subject", a.Key(),
			"detail", a.URI,
		)
	}
	if s.metrics != nil {
		s.metrics.URIsAssigned.Add(float64(len(canonical)))
	}
	return nil
}

// checkAssignment applies the per-entry rules in order. A name seen earlier
// in the batch has already left the queue.
func (s *Service) checkAssignment(ctx context.Context, a models.URIAssignment, seen map[string]struct{}) (models.URIAssignment, error) {
	if a.URI == "" {
		return a, dErrors.Wrap(ErrEmptyURI, dErrors.CodeValidation, "invalid uri assignment")
	}
	attributes, err := s.canonicalize(ctx, a.Attributes)
	if err != nil {
		return a, err
	}
	a.Attributes = attributes

	if _, err := s.store.URI(ctx, a.Key()); err == nil {
		return a, dErrors.Wrap(ErrURIAlreadySet, dErrors.CodeConflict, "cannot set uri")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return a, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read uri")
	}

	if _, dup := seen[a.Name]; dup {
		return a, dErrors.Wrap(ErrNotInQueue, dErrors.CodeConflict, "cannot set uri")
	}
	seen[a.Name] = struct{}{}

	job, err := s.store.QueuedByName(ctx, a.Name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return a, dErrors.Wrap(ErrNotInQueue, dErrors.CodeConflict, "cannot set uri")
	}
	if err != nil {
		return a, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read render queue")
	}
	if job.Attributes != a.Attributes {
		return a, dErrors.Wrap(ErrAttributesMismatch, dErrors.CodeConflict, "cannot set uri")
	}
	return a, nil
}

// URIOf returns the image URI recorded for attrs and name. The error
// matches sentinel.ErrNotFound when nothing was recorded.
func (s *Service) URIOf(ctx context.Context, raw string, name string) (string, error) {
	canonical, err := s.canonicalize(ctx, raw)
	if err != nil {
		return "", err
	}
	uri, err := s.store.URI(ctx, models.Key(canonical, name))
	if errors.Is(err, sentinel.ErrNotFound) {
		if s.metrics != nil {
			s.metrics.RecordLookup(false)
		}
		return "", dErrors.Wrap(err, dErrors.CodeNotFound,
			fmt.Sprintf("there is no URI associated to the attributes %s for %s", canonical, name))
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read uri")
	}
	if s.metrics != nil {
		s.metrics.RecordLookup(true)
	}
	return uri, nil
}

func (s *Service) requireSetter(ctx context.Context, caller domain.Principal) error {
	if caller == s.owner {
		return nil
	}
	ok, err := s.store.IsSetter(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check uri setters")
	}
	if !ok {
		return dErrors.Wrap(ErrNotAuthorized, dErrors.CodeForbidden, "you don't have the permission to set uris")
	}
	return nil
}

func (s *Service) canonicalize(ctx context.Context, raw string) (string, error) {
	canonical, err := s.codecs.Canonicalize(ctx, raw)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid attributes")
	}
	return canonical, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Actor:     attrs.ExtractString(attributes, "caller"),
		Subject:   attrs.ExtractString(attributes, "subject"),
		Action:    event,
		Detail:    attrs.ExtractString(attributes, "detail"),
		RequestID: requestID,
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
