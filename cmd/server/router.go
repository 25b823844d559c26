package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	equippablehandler "github.com/Estar-Games/sc-customize-nft/internal/equippable/handler"
	httpmetrics "github.com/Estar-Games/sc-customize-nft/internal/platform/metrics"
	ratelimit "github.com/Estar-Games/sc-customize-nft/internal/ratelimit/middleware"
	renderhandler "github.com/Estar-Games/sc-customize-nft/internal/render/handler"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/httputil"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/auth"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/metadata"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/request"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

type routerDeps struct {
	logger     *slog.Logger
	validator  auth.JWTValidator
	limiter    *ratelimit.Middleware // nil disables throttling
	equippable equippablehandler.Service
	render     renderhandler.Service
	metrics    *httpmetrics.Metrics
	gatherer   prometheus.Gatherer
	health     func(ctx context.Context) error
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(deps.logger))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(deps.logger))
	r.Use(deps.metrics.Middleware)

	r.Get("/health", healthHandler(deps.health))
	r.Handle("/metrics", httpmetrics.Handler(deps.gatherer))

	r.Group(func(r chi.Router) {
		r.Use(requesttime.Middleware)
		r.Use(auth.Authenticate(deps.validator, deps.logger))
		if deps.limiter != nil {
			r.Use(deps.limiter.RateLimit)
		}
		equippablehandler.New(deps.equippable, deps.logger).Register(r)
		renderhandler.New(deps.render, deps.logger).Register(r)
	})
	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := check(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
