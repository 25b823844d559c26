// Package middleware throttles HTTP requests per caller, or per client IP
// for anonymous requests.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/metrics"
	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/httputil"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/metadata"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

// BucketStore admits or rejects one request against a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store   BucketStore
	limits  map[models.EndpointClass]models.Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Middleware)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) {
		mw.metrics = m
	}
}

// New builds a limiter. A class missing from limits is not throttled.
func New(store BucketStore, limits map[models.EndpointClass]models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	mw := &Middleware{
		store:  store,
		limits: limits,
		logger: logger,
	}
	for _, opt := range opts {
		opt(mw)
	}
	return mw
}

// RateLimit must run after authentication so callers get their own bucket.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		class := classify(r.Method)
		limit, ok := m.limits[class]
		if !ok || limit.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := bucketKey(ctx, class)
		result, err := m.store.Allow(ctx, key, limit.Requests, limit.Window)
		if err != nil {
			// Fail open: a store outage must not take the API down.
			m.logger.ErrorContext(ctx, "rate limit check failed", "key", key, "error", err)
			if m.metrics != nil {
				m.metrics.StoreErrors.Inc()
			}
			next.ServeHTTP(w, r)
			return
		}
		if m.metrics != nil {
			m.metrics.RecordDecision(string(class), result.Allowed)
		}

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"key", key,
				"request_id", requestcontext.RequestID(ctx),
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func classify(method string) models.EndpointClass {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return models.ClassRead
	default:
		return models.ClassWrite
	}
}

func bucketKey(ctx context.Context, class models.EndpointClass) string {
	if caller := requestcontext.Caller(ctx); !caller.IsNil() {
		return models.BucketKey(class, "caller", caller.String())
	}
	return models.BucketKey(class, "ip", metadata.GetClientIP(ctx))
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
