// Package outbox publishes queued audit outbox rows to a message broker.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/store/postgres"

	"github.com/google/uuid"
)

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// Source yields unpublished outbox entries and records their delivery.
type Source interface {
	FetchPending(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Producer delivers one entry to the broker.
type Producer interface {
	Publish(ctx context.Context, key string, eventType string, payload []byte) error
}

// Relay polls the outbox and forwards entries in creation order. Entries are
// marked published only after the broker acknowledged them, so delivery is
// at-least-once.
type Relay struct {
	source    Source
	producer  Producer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func NewRelay(source Source, producer Producer, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		producer:  producer,
		logger:    slog.Default(),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Flush(ctx); err != nil {
			r.logger.WarnContext(ctx, "audit outbox relay failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch and returns how many entries were delivered.
// It stops at the first publish failure so ordering is preserved.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	entries, err := r.source.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	published := make([]uuid.UUID, 0, len(entries))
	var publishErr error
	for _, e := range entries {
		if err := r.producer.Publish(ctx, e.Key, e.EventType, e.Payload); err != nil {
			publishErr = err
			break
		}
		published = append(published, e.ID)
	}

	if err := r.source.MarkPublished(ctx, published); err != nil {
		return 0, err
	}
	return len(published), publishErr
}
