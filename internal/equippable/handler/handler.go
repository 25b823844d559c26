package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/httputil"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

// Service defines the equippable operations exposed over HTTP.
type Service interface {
	RegisterItems(ctx context.Context, caller domain.Principal, items []models.RegisterItem) ([]*models.Registration, error)
	LookupItem(ctx context.Context, token domain.TokenID) (*models.Registration, error)
	ListItems(ctx context.Context) ([]*models.Registration, error)
	Customize(ctx context.Context, caller domain.Principal, payments []models.Payment, unequipSlots []string) (*models.CustomizeResult, error)
	Fill(ctx context.Context, caller domain.Principal, payment models.Payment) error
}

// Handler wires item registry and customization endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the equippable endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/items", h.HandleListItems)
	r.Get("/items/{token}", h.HandleGetItem)
	r.Post("/items", h.HandleRegisterItems)
	r.Post("/customize", h.HandleCustomize)
	r.Post("/fill", h.HandleFill)
}

func (h *Handler) requireCaller(w http.ResponseWriter, ctx context.Context) (domain.Principal, bool) {
	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

// HandleRegisterItems handles POST /items.
func (h *Handler) HandleRegisterItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegisterItemsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	regs, err := h.service.RegisterItems(ctx, caller, req.ParsedItems())
	if err != nil {
		h.logger.WarnContext(ctx, "item registration failed",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toRegistrationList(regs))
}

// HandleListItems handles GET /items.
func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.service.ListItems(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRegistrationList(regs))
}

// HandleGetItem handles GET /items/{token}.
func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := domain.ParseTokenID(chi.URLParam(r, "token"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid token identifier"))
		return
	}
	reg, err := h.service.LookupItem(ctx, token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

// HandleCustomize handles POST /customize.
func (h *Handler) HandleCustomize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CustomizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Customize(ctx, caller, req.ParsedPayments(), req.Unequip)
	if err != nil {
		h.logger.WarnContext(ctx, "customization failed",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "equippable customized",
		"request_id", requestID,
		"caller", caller,
		"nonce", result.Nonce,
		"returned", len(result.Returned),
		"absorbed", len(result.Absorbed),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleFill handles POST /fill.
func (h *Handler) HandleFill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FillRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Fill(ctx, caller, req.ParsedPayment()); err != nil {
		h.logger.WarnContext(ctx, "fill failed",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
