package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	equippablemetrics "github.com/Estar-Games/sc-customize-nft/internal/equippable/metrics"
	equippable "github.com/Estar-Games/sc-customize-nft/internal/equippable/service"
	jwttoken "github.com/Estar-Games/sc-customize-nft/internal/jwt_token"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/config"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/httpserver"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/logger"
	httpmetrics "github.com/Estar-Games/sc-customize-nft/internal/platform/metrics"
	ratelimitmetrics "github.com/Estar-Games/sc-customize-nft/internal/ratelimit/metrics"
	ratelimit "github.com/Estar-Games/sc-customize-nft/internal/ratelimit/middleware"
	ratelimitmodels "github.com/Estar-Games/sc-customize-nft/internal/ratelimit/models"
	rendermetrics "github.com/Estar-Games/sc-customize-nft/internal/render/metrics"
	render "github.com/Estar-Games/sc-customize-nft/internal/render/service"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/publisher"
)

// main wires the services, exposes the HTTP router and runs the background
// workers until SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(log)

	catalogue, err := config.LoadCatalogue(cfg.CataloguePath)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, catalogue, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := httpserver.New(cfg.Server.Addr, a.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr, "equippable", a.collection.Equippable)
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	if a.storage.relay != nil {
		g.Go(func() error {
			log.Info("starting audit outbox relay", "topic", cfg.Audit.KafkaTopic)
			if err := a.storage.relay.Run(gctx); err != nil && gctx.Err() == nil {
				return fmt.Errorf("audit relay: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shut down cleanly")
	return nil
}

// app is the wired server without its listeners.
type app struct {
	collection equippable.Config
	storage    *storage
	audit      *publisher.Publisher
	router     http.Handler
}

func newApp(ctx context.Context, cfg config.Config, catalogue config.Catalogue, log *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	collection, err := parseCollection(cfg.Collection)
	if err != nil {
		return nil, err
	}

	st, err := openStorage(ctx, cfg, collection.Custody, log)
	if err != nil {
		return nil, err
	}
	log.Info("storage ready", "mode", cfg.Storage.Mode, "render_store", st.renderKind)

	if err := seedCatalogue(ctx, st, catalogue, cfg.Storage.Mode, log); err != nil {
		st.Close()
		return nil, fmt.Errorf("seeding catalogue: %w", err)
	}

	auditOpts := []publisher.Option{publisher.WithLogger(log)}
	if !st.auditInTx {
		auditOpts = append(auditOpts, publisher.WithAsyncBuffer(cfg.Audit.Buffer))
	}
	auditPublisher := publisher.NewPublisher(st.audit, auditOpts...)
	a := &app{collection: collection, storage: st, audit: auditPublisher}

	style := attributes.SlotStyleLower
	if catalogue.Capitalized() {
		style = attributes.SlotStyleCapitalized
	}
	codecs := attributes.NewProvider(st.registry, catalogue.Slots, style)

	renderSvc, err := render.New(collection.Owner, st.render, codecs,
		render.WithLogger(log),
		render.WithMetrics(rendermetrics.NewWithRegisterer(reg)),
		render.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building render service: %w", err)
	}

	equippableSvc, err := equippable.New(collection, st.registry, st.ledger, st.ledger, st.tx,
		equippable.WithLogger(log),
		equippable.WithMetrics(equippablemetrics.NewWithRegisterer(reg)),
		equippable.WithAuditPublisher(auditPublisher),
		equippable.WithURIResolver(renderSvc),
		equippable.WithCodecs(codecs),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building equippable service: %w", err)
	}

	var limiter *ratelimit.Middleware
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(st.buckets, map[ratelimitmodels.EndpointClass]ratelimitmodels.Limit{
			ratelimitmodels.ClassRead:  {Requests: cfg.RateLimit.ReadRequests, Window: cfg.RateLimit.Window},
			ratelimitmodels.ClassWrite: {Requests: cfg.RateLimit.WriteRequests, Window: cfg.RateLimit.Window},
		}, log, ratelimit.WithMetrics(ratelimitmetrics.NewWithRegisterer(reg)))
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	a.router = newRouter(routerDeps{
		logger:     log,
		validator:  jwttoken.NewJWTServiceAdapter(jwtService),
		limiter:    limiter,
		equippable: equippableSvc,
		render:     renderSvc,
		metrics:    httpmetrics.NewWithRegisterer(reg),
		gatherer:   gatherer,
		health:     st.Health,
	})
	return a, nil
}

// Close flushes buffered audit events before releasing connections.
func (a *app) Close() {
	a.audit.Close()
	a.storage.Close()
}

func parseCollection(c config.Collection) (equippable.Config, error) {
	token, err := domain.ParseTokenID(c.Equippable)
	if err != nil {
		return equippable.Config{}, fmt.Errorf("CUSTOMIZE_EQUIPPABLE_TOKEN: %w", err)
	}
	owner, err := domain.ParsePrincipal(c.Owner)
	if err != nil {
		return equippable.Config{}, fmt.Errorf("CUSTOMIZE_OWNER: %w", err)
	}
	custody, err := domain.ParsePrincipal(c.Custody)
	if err != nil {
		return equippable.Config{}, fmt.Errorf("CUSTOMIZE_CUSTODY: %w", err)
	}
	return equippable.Config{Equippable: token, Owner: owner, Custody: custody}, nil
}
