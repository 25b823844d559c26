package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	equippable "github.com/Estar-Games/sc-customize-nft/internal/equippable/service"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/store/ledger"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/store/registry"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/config"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/postgres"
	platformredis "github.com/Estar-Games/sc-customize-nft/internal/platform/redis"
	ratelimit "github.com/Estar-Games/sc-customize-nft/internal/ratelimit/middleware"
	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/store/bucket"
	render "github.com/Estar-Games/sc-customize-nft/internal/render/service"
	renderstore "github.com/Estar-Games/sc-customize-nft/internal/render/store"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/outbox"
	auditmemory "github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/store/memory"
	auditpostgres "github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/store/postgres"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/kafka"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/tx"
)

// catalogueLedger is the ledger as the server needs it: the service ports
// plus the seeding operations used at startup.
type catalogueLedger interface {
	equippable.Ledger
	ports.RoleCheck
	GrantRole(ctx context.Context, token domain.TokenID, role ports.Role) error
	CreateToken(ctx context.Context, holder domain.Principal, data ports.TokenData, quantity uint64) (uint64, error)
}

type storage struct {
	registry equippable.RegistryStore
	ledger   catalogueLedger
	tx       ports.Transactor
	audit    audit.Store
	render   render.Store
	buckets  ratelimit.BucketStore
	relay    *outbox.Relay

	// auditInTx is set when audit rows join the caller's transaction, which
	// requires a synchronous publisher.
	auditInTx  bool
	renderKind string

	db       *sql.DB
	redis    *goredis.Client
	producer *kafka.Producer
}

func openStorage(ctx context.Context, cfg config.Config, custody domain.Principal, log *slog.Logger) (*storage, error) {
	st := &storage{}
	if err := st.openRender(ctx, cfg.Storage.Redis); err != nil {
		return nil, err
	}

	switch cfg.Storage.Mode {
	case config.StoragePostgres:
		if err := st.openPostgres(ctx, cfg, custody, log); err != nil {
			st.Close()
			return nil, err
		}
	default:
		reg := registry.NewInMemory()
		led := ledger.NewInMemory(custody)
		st.registry = reg
		st.ledger = led
		st.tx = tx.NewMemoryTransactor(reg, led)
		st.audit = auditmemory.NewInMemoryStore()
	}
	return st, nil
}

func (st *storage) openRender(ctx context.Context, cfg config.RedisConfig) error {
	client, err := platformredis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if client == nil {
		st.render = renderstore.NewInMemory()
		st.buckets = bucket.NewInMemoryBucketStore()
		st.renderKind = "memory"
		return nil
	}
	st.redis = client
	st.render = renderstore.NewRedis(client)
	st.buckets = bucket.NewRedisBucketStore(client)
	st.renderKind = "redis"
	return nil
}

func (st *storage) openPostgres(ctx context.Context, cfg config.Config, custody domain.Principal, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	st.db = db
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("database migrations applied")

	auditStore := auditpostgres.New(db)
	st.registry = registry.NewPostgres(db)
	st.ledger = ledger.NewPostgres(db, custody)
	st.tx = newPostgresTx(db)
	st.audit = auditStore
	st.auditInTx = true

	if len(cfg.Audit.KafkaBrokers) == 0 {
		return nil
	}
	producer, err := kafka.NewProducer(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
	if err != nil {
		return err
	}
	st.producer = producer
	if err := producer.EnsureTopic(ctx, 1, 1); err != nil {
		return fmt.Errorf("provisioning audit topic: %w", err)
	}
	st.relay = outbox.NewRelay(auditStore, producer,
		outbox.WithInterval(cfg.Audit.RelayInterval),
		outbox.WithBatchSize(cfg.Audit.RelayBatch),
		outbox.WithLogger(log),
	)
	return nil
}

// Health pings every external dependency that is configured.
func (st *storage) Health(ctx context.Context) error {
	var errs []error
	if st.db != nil {
		if err := st.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if st.redis != nil {
		if err := st.redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if st.producer != nil {
		if err := st.producer.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (st *storage) Close() {
	if st.producer != nil {
		st.producer.Close()
	}
	if st.redis != nil {
		_ = st.redis.Close()
	}
	if st.db != nil {
		_ = st.db.Close()
	}
}
