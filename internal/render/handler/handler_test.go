package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/internal/render/service"
	"github.com/Estar-Games/sc-customize-nft/internal/render/store"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/testutil"
)

const (
	owner    = "erd1owner"
	renderer = "erd1renderer"
	alice    = "erd1alice"
)

var fee = strconv.FormatUint(models.EnqueuePrice, 10)

func newRenderRouter(t *testing.T) http.Handler {
	t.Helper()
	codecs := attributes.NewProvider(nil, []string{"hat", "weapon"}, attributes.SlotStyleLower)
	svc, err := service.New(owner, store.NewInMemory(), codecs)
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Register(r)
	return r
}

func TestRenderFlow(t *testing.T) {
	router := newRenderRouter(t)

	enqueue := map[string]any{"attributes": "weapon:Gun;hat:Cap", "name": "Penguin #1", "fee": fee}
	rr := testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/queue", alice, enqueue))
	require.Equal(t, http.StatusAccepted, rr.Code)
	job := testutil.UnmarshalResponse[JobResponse](t, rr)
	assert.Equal(t, "hat:Cap;weapon:Gun", job.Attributes)

	rr = testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/queue", alice, enqueue))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeConflict))

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/render/queue", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	queue := testutil.UnmarshalResponse[QueueResponse](t, rr)
	require.Len(t, queue.Jobs, 1)

	setters := map[string]any{"principal": renderer}
	rr = testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/setters", alice, setters))
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	rr = testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/setters", owner, setters))
	require.Equal(t, http.StatusNoContent, rr.Code)

	uris := map[string]any{"uris": []map[string]any{{"attributes": "hat:Cap;weapon:Gun", "name": "Penguin #1", "uri": "https://img/1.png"}}}
	rr = testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/uris", renderer, uris))
	require.Equal(t, http.StatusNoContent, rr.Code)

	query := url.Values{"attributes": {"weapon:Gun;hat:Cap"}, "name": {"Penguin #1"}}
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/render/uri?"+query.Encode(), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[URIResponse](t, rr)
	assert.Equal(t, "https://img/1.png", resp.URI)
}

func TestRenderRejections(t *testing.T) {
	router := newRenderRouter(t)

	t.Run("enqueue requires a caller", func(t *testing.T) {
		body := map[string]any{"attributes": "hat:Cap", "name": "Penguin #1", "fee": fee}
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/render/queue", body))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})

	t.Run("fee must be numeric", func(t *testing.T) {
		body := map[string]any{"attributes": "hat:Cap", "name": "Penguin #1", "fee": "0.001"}
		rr := testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/queue", alice, body))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("wrong fee", func(t *testing.T) {
		body := map[string]any{"attributes": "hat:Cap", "name": "Penguin #1", "fee": "1"}
		rr := testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/queue", alice, body))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("unknown uri", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/render/uri?attributes=hat:Cap&name=nobody", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	t.Run("uri lookup needs a name", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/render/uri?attributes=hat:Cap", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	t.Run("set uris of a job never queued", func(t *testing.T) {
		uris := map[string]any{"uris": []map[string]any{{"attributes": "hat:Cap", "name": "Penguin #7", "uri": "u"}}}
		rr := testutil.DoRequest(router, testutil.NewCallerRequest(t, http.MethodPost, "/render/uris", owner, uris))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeConflict))
	})
}
