package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/metrics"
	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/models"
	"github.com/Estar-Games/sc-customize-nft/internal/ratelimit/store/bucket"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/middleware/metadata"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

type RateLimitSuite struct {
	suite.Suite
	metrics *metrics.Metrics
	handler http.Handler
}

func TestRateLimitSuite(t *testing.T) {
	suite.Run(t, new(RateLimitSuite))
}

func (s *RateLimitSuite) SetupTest() {
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.handler = s.build(bucket.NewInMemoryBucketStore())
}

func (s *RateLimitSuite) build(store BucketStore) http.Handler {
	limits := map[models.EndpointClass]models.Limit{
		models.ClassRead:  {Requests: 3, Window: time.Minute},
		models.ClassWrite: {Requests: 1, Window: time.Minute},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := New(store, limits, logger, WithMetrics(s.metrics))
	return mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (s *RateLimitSuite) serve(method string, caller domain.Principal, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/items", nil)
	ctx := metadata.WithClientMetadata(req.Context(), ip, "test")
	if !caller.IsNil() {
		ctx = requestcontext.WithCaller(ctx, caller)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func (s *RateLimitSuite) TestWriteBudget() {
	rec := s.serve(http.MethodPost, "erd1alice", "10.0.0.1")
	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("1", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = s.serve(http.MethodPost, "erd1alice", "10.0.0.1")
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))

	var body models.RateLimitExceededResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("rate_limit_exceeded", body.Error)
	s.Positive(body.RetryAfter)

	s.Run("reads use their own budget", func() {
		rec := s.serve(http.MethodGet, "erd1alice", "10.0.0.1")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("another caller on the same ip is not affected", func() {
		rec := s.serve(http.MethodPost, "erd1bob", "10.0.0.1")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Decisions.WithLabelValues("write", "rejected")))
}

func (s *RateLimitSuite) TestAnonymousByIP() {
	for range 3 {
		s.Equal(http.StatusNoContent, s.serve(http.MethodGet, "", "10.0.0.2").Code)
	}
	s.Equal(http.StatusTooManyRequests, s.serve(http.MethodGet, "", "10.0.0.2").Code)
	s.Equal(http.StatusNoContent, s.serve(http.MethodGet, "", "10.0.0.3").Code)
}

func (s *RateLimitSuite) TestStoreFailureLetsRequestsThrough() {
	s.handler = s.build(failingStore{})
	for range 3 {
		s.Equal(http.StatusNoContent, s.serve(http.MethodPost, "erd1alice", "10.0.0.1").Code)
	}
	s.Equal(float64(3), testutil.ToFloat64(s.metrics.StoreErrors))
}
