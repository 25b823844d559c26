package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/engine"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/metrics"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/attrs"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

var tracer = otel.Tracer("github.com/Estar-Games/sc-customize-nft/internal/equippable/service")

// RegistryStore persists item registrations. Save is an upsert keyed by token
// and returns sentinel.ErrConflict when another token already holds the
// same (slot, name) pair.
type RegistryStore interface {
	engine.Registry
	Save(ctx context.Context, reg *models.Registration) error
	List(ctx context.Context) ([]*models.Registration, error)
	ListSlots(ctx context.Context) ([]attributes.Slot, error)
}

// Ledger is the token ledger as seen from the service's custody account.
type Ledger interface {
	ports.AssetLedger
	ports.TokenReader
	ports.PaymentReceiver
}

// Config identifies the equippable collection and the principals involved.
type Config struct {
	Equippable domain.TokenID
	Owner      domain.Principal
	// Custody is the account the service holds tokens in.
	Custody domain.Principal
}

// Service orchestrates item registration, customization and custody top-ups
// for one equippable collection.
type Service struct {
	cfg      Config
	registry RegistryStore
	ledger   Ledger
	roles    ports.RoleCheck
	tx       ports.Transactor

	codecs *attributes.Provider

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher
	uris           ports.URIResolver
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

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithURIResolver sets the source of image URIs for newly minted equippables.
func WithURIResolver(resolver ports.URIResolver) Option {
	return func(s *Service) {
		s.uris = resolver
	}
}

// WithCodecs sets the codec provider. Without it the universe is the set of
// slots currently present in the registry, written lower-case.
func WithCodecs(codecs *attributes.Provider) Option {
	return func(s *Service) {
		s.codecs = codecs
	}
}

// New constructs a Service.
func New(cfg Config, registry RegistryStore, ledger Ledger, roles ports.RoleCheck, tx ports.Transactor, opts ...Option) (*Service, error) {
	if cfg.Equippable.IsNil() {
		return nil, errors.New("equippable token is required")
	}
	if cfg.Owner.IsNil() {
		return nil, errors.New("owner is required")
	}
	if cfg.Custody.IsNil() {
		return nil, errors.New("custody account is required")
	}
	if registry == nil || ledger == nil || roles == nil || tx == nil {
		return nil, errors.New("registry, ledger, roles and transactor are required")
	}

	s := &Service{
		cfg:      cfg,
		registry: registry,
		ledger:   ledger,
		roles:    roles,
		tx:       tx,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codecs == nil {
		s.codecs = attributes.NewProvider(registry, nil, attributes.SlotStyleLower)
	}
	return s, nil
}

// Equippable returns the collection this service customizes.
func (s *Service) Equippable() domain.TokenID {
	return s.cfg.Equippable
}

// Codec builds the attribute codec for the current slot universe.
func (s *Service) Codec(ctx context.Context) (*attributes.Codec, error) {
	codec, err := s.codecs.Codec(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build attribute codec")
	}
	return codec, nil
}

func (s *Service) requireOwner(caller domain.Principal) error {
	if caller != s.cfg.Owner {
		return dErrors.Wrap(ErrNotOwner, dErrors.CodeForbidden, "caller is not the owner")
	}
	return nil
}

// translateEngineError maps mutation and codec failures onto API codes.
func translateEngineError(err error) error {
	var coded *dErrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, engine.ErrUnknownSlot),
		errors.Is(err, engine.ErrEmptySlotUnequip),
		errors.Is(err, engine.ErrUnregisteredItem),
		errors.Is(err, engine.ErrSelfEquip),
		errors.Is(err, engine.ErrItemWithoutIdentity),
		errors.Is(err, engine.ErrNoOperationRequested),
		errors.Is(err, attributes.ErrBufferTooLarge):
		return dErrors.Wrap(err, dErrors.CodeValidation, "customization rejected")
	case attributes.IsCodecError(err):
		return dErrors.Wrap(err, dErrors.CodeCorruptState, "stored attributes are invalid")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "customization failed")
	}
}

// logAudit never fails the call; emit errors are only logged.
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
