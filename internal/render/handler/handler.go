package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/httputil"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

// Service defines the render operations exposed over HTTP.
type Service interface {
	Enqueue(ctx context.Context, caller domain.Principal, attributes string, name string, fee uint64) (*models.Job, error)
	Queue(ctx context.Context) ([]models.Job, error)
	AuthorizeSetter(ctx context.Context, caller domain.Principal, principal domain.Principal) error
	SetURIs(ctx context.Context, caller domain.Principal, assignments []models.URIAssignment) error
	URIOf(ctx context.Context, attributes string, name string) (string, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the render endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/render", func(r chi.Router) {
		r.Get("/queue", h.HandleQueue)
		r.Post("/queue", h.HandleEnqueue)
		r.Post("/uris", h.HandleSetURIs)
		r.Post("/setters", h.HandleAuthorizeSetter)
		r.Get("/uri", h.HandleURIOf)
	})
}

func (h *Handler) requireCaller(w http.ResponseWriter, ctx context.Context) (domain.Principal, bool) {
	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

// HandleEnqueue handles POST /render/queue.
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EnqueueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	job, err := h.service.Enqueue(ctx, caller, req.Attributes, req.Name, req.ParsedFee())
	if err != nil {
		h.logger.WarnContext(ctx, "render enqueue failed",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, toJobResponse(*job))
}

// HandleQueue handles GET /render/queue.
func (h *Handler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.Queue(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toQueueResponse(jobs))
}

// HandleSetURIs handles POST /render/uris.
func (h *Handler) HandleSetURIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetURIsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetURIs(ctx, caller, req.Assignments()); err != nil {
		h.logger.WarnContext(ctx, "set uris failed",
			"request_id", requestID,
			"caller", caller,
			"count", len(req.URIs),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuthorizeSetter handles POST /render/setters.
func (h *Handler) HandleAuthorizeSetter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AuthorizeSetterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.AuthorizeSetter(ctx, caller, req.ParsedPrincipal()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleURIOf handles GET /render/uri?attributes=&name=.
func (h *Handler) HandleURIOf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	attributes, name := query.Get("attributes"), query.Get("name")
	if name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "name is required"))
		return
	}

	uri, err := h.service.URIOf(ctx, attributes, name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, URIResponse{Attributes: attributes, Name: name, URI: uri})
}
