// Package handler exposes the registry over HTTP. Handlers decode and
// validate, delegate to the service, and translate results into the JSON
// envelope; all domain rules live in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tns/internal/registry/models"
	"tns/internal/registry/service"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
	"tns/pkg/platform/httputil"
	"tns/pkg/requestcontext"
)

// Service is the registry surface the handler depends on.
type Service interface {
	Register(ctx context.Context, req service.RegisterRequest) (*models.RegisterResult, error)
	Renew(ctx context.Context, req service.RenewRequest) (*models.RenewResult, error)
	Claim(ctx context.Context, req service.ClaimRequest) (*models.ClaimResult, error)
	UpdateMint(ctx context.Context, req service.UpdateMintRequest) (*models.UpdateMintResult, error)
	TransferOwnership(ctx context.Context, req service.TransferRequest) (*models.TransferResult, error)
	ClaimOwnership(ctx context.Context, req service.ClaimOwnershipRequest) (*models.ClaimOwnershipResult, error)
	Cancel(ctx context.Context, req service.CancelRequest) (*models.CloseResult, error)
	DriftClose(ctx context.Context, req service.DriftCloseRequest) (*models.CloseResult, error)
	Resolve(ctx context.Context, symbol string) (*service.Resolution, error)
	QuotePrice(ctx context.Context, years uint8, currency models.Currency) (*service.PriceQuote, error)
	ListSymbols(ctx context.Context) ([]*models.SymbolRecord, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public registry endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registry", func(r chi.Router) {
		r.Get("/quote", h.handleQuote)
		r.Route("/symbols", func(r chi.Router) {
			r.Post("/", h.handleRegister)
			r.Get("/", h.handleList)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Get("/", h.handleResolve)
				r.Post("/renew", h.handleRenew)
				r.Post("/claim", h.handleClaim)
				r.Post("/mint", h.handleUpdateMint)
				r.Post("/transfer", h.handleTransfer)
				r.Post("/claim-ownership", h.handleClaimOwnership)
				r.Post("/drift-close", h.handleDriftClose)
				r.Delete("/", h.handleCancel)
			})
		})
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.Decode[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Register(ctx, service.RegisterRequest{
		Payer:           id.Identity(req.Payer),
		Symbol:          req.Symbol,
		Mint:            id.TokenRef(req.Mint),
		Years:           req.Years,
		Currency:        req.currency(),
		MaxCost:         req.MaxCost,
		PlatformFeeBPS:  req.PlatformFeeBPS,
		PlatformAccount: id.Identity(req.PlatformAccount),
	})
	if err != nil {
		h.logError(ctx, "symbol registration failed", req.Symbol, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "symbol registered",
		"request_id", requestcontext.RequestID(ctx),
		"symbol", result.Record.Symbol,
		"owner", result.Record.Owner,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Record:          fromRecord(result.Record),
		MetadataMutable: result.MetadataMutable,
		Payment:         fromPayment(result.Payment),
	})
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[RenewRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Renew(ctx, service.RenewRequest{
		Payer:           id.Identity(req.Payer),
		Symbol:          symbol,
		Years:           req.Years,
		Currency:        req.currency(),
		MaxCost:         req.MaxCost,
		PlatformFeeBPS:  req.PlatformFeeBPS,
		PlatformAccount: id.Identity(req.PlatformAccount),
	})
	if err != nil {
		h.logError(ctx, "symbol renewal failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RenewResponse{
		Record:       fromRecord(result.Record),
		OldExpiresAt: result.OldExpiresAt,
		Payment:      fromPayment(result.Payment),
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[ClaimRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Claim(ctx, service.ClaimRequest{
		Claimant:        id.Identity(req.Claimant),
		Symbol:          symbol,
		Mint:            id.TokenRef(req.Mint),
		Years:           req.Years,
		Currency:        req.currency(),
		MaxCost:         req.MaxCost,
		PlatformFeeBPS:  req.PlatformFeeBPS,
		PlatformAccount: id.Identity(req.PlatformAccount),
	})
	if err != nil {
		h.logError(ctx, "symbol claim failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ClaimResponse{
		Record:        fromRecord(result.Record),
		PreviousOwner: result.PreviousOwner.String(),
		PreviousMint:  result.PreviousMint.String(),
		Payment:       fromPayment(result.Payment),
	})
}

func (h *Handler) handleUpdateMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[UpdateMintRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.UpdateMint(ctx, service.UpdateMintRequest{
		Owner:           id.Identity(req.Owner),
		Symbol:          symbol,
		NewMint:         id.TokenRef(req.Mint),
		Currency:        req.currency(),
		MaxCost:         req.MaxCost,
		PlatformFeeBPS:  req.PlatformFeeBPS,
		PlatformAccount: id.Identity(req.PlatformAccount),
	})
	if err != nil {
		h.logError(ctx, "mint update failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, UpdateMintResponse{
		Record:  fromRecord(result.Record),
		OldMint: result.OldMint.String(),
		Payment: fromPayment(result.Payment),
	})
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[TransferRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.TransferOwnership(ctx, service.TransferRequest{
		Owner:    id.Identity(req.Owner),
		Symbol:   symbol,
		NewOwner: id.Identity(req.NewOwner),
	})
	if err != nil {
		h.logError(ctx, "ownership transfer failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TransferResponse{
		Record:   fromRecord(result.Record),
		OldOwner: result.OldOwner.String(),
	})
}

func (h *Handler) handleClaimOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[ClaimOwnershipRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ClaimOwnership(ctx, service.ClaimOwnershipRequest{
		Claimant: id.Identity(req.Claimant),
		Symbol:   symbol,
	})
	if err != nil {
		h.logError(ctx, "ownership claim failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TransferResponse{
		Record:    fromRecord(result.Record),
		OldOwner:  result.OldOwner.String(),
		ClaimPath: string(result.Path),
	})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[KeeperRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Cancel(ctx, service.CancelRequest{
		Keeper: id.Identity(req.Keeper),
		Symbol: symbol,
	})
	if err != nil {
		h.logError(ctx, "symbol cancel failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromClose(result))
}

func (h *Handler) handleDriftClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	req, ok := httputil.Decode[KeeperRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.DriftClose(ctx, service.DriftCloseRequest{
		Keeper: id.Identity(req.Keeper),
		Symbol: symbol,
	})
	if err != nil {
		h.logError(ctx, "drift close failed", symbol, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromClose(result))
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	resolution, err := h.service.Resolve(ctx, symbol)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := fromRecord(resolution.Record)
	resp.State = string(resolution.State)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListSymbols(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]SymbolResponse, 0, len(records))
	for _, record := range records {
		out = append(out, fromRecord(record))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	yearsParam := r.URL.Query().Get("years")
	years, err := strconv.ParseUint(yearsParam, 10, 8)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "years must be a number between 1 and 10"))
		return
	}
	currency := models.Currency(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = models.CurrencyNative
	}

	quote, err := h.service.QuotePrice(r.Context(), uint8(years), currency)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromQuote(quote))
}

func (h *Handler) logError(ctx context.Context, msg, symbol string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"symbol", symbol,
		"error", err,
	)
}
