package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tns/internal/registry/models"
	"tns/internal/registry/service"
	id "tns/pkg/domain"
	"tns/pkg/platform/httputil"
	"tns/pkg/requestcontext"
)

// AdminService is the admin surface the handler depends on.
type AdminService interface {
	Initialize(ctx context.Context, req service.InitializeRequest) (*models.ProtocolConfig, error)
	UpdateConfig(ctx context.Context, req service.UpdateConfigRequest) (*models.ProtocolConfig, error)
	SeedSymbol(ctx context.Context, req service.SeedSymbolRequest) (*models.RegisterResult, error)
	AdminCloseSymbol(ctx context.Context, actor id.Identity, symbol string) (*models.CloseResult, error)
}

// AdminHandler wires the admin endpoints. It is mounted behind the admin
// token middleware; the service still checks the acting identity against the
// configured admin.
type AdminHandler struct {
	service AdminService
	logger  *slog.Logger
}

// NewAdmin constructs the admin handler.
func NewAdmin(service AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// Register mounts the admin endpoints.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/admin/initialize", h.handleInitialize)
	r.Patch("/admin/config", h.handleUpdateConfig)
	r.Post("/admin/symbols", h.handleSeedSymbol)
	r.Delete("/admin/symbols/{symbol}", h.handleCloseSymbol)
}

func (h *AdminHandler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[InitializeRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	domainReq := service.InitializeRequest{
		Admin:               id.Identity(req.Admin),
		FeeCollector:        id.Identity(req.FeeCollector),
		ReserveAccount:      id.Identity(req.ReserveAccount),
		BasePriceUSDMicro:   req.BasePriceUSDMicro,
		AnnualIncreaseBPS:   req.AnnualIncreaseBPS,
		UpdateFeeBPS:        req.UpdateFeeBPS,
		NativeUSDFeed:       id.FeedRef(req.NativeUSDFeed),
		KeeperRewardNative:  req.KeeperRewardNative,
		RecordDepositNative: req.RecordDepositNative,
		ReserveFloorNative:  req.ReserveFloorNative,
	}
	if req.LaunchAtUnix != 0 {
		domainReq.LaunchAt = time.Unix(req.LaunchAtUnix, 0).UTC()
	}

	cfg, err := h.service.Initialize(ctx, domainReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "protocol initialization failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "protocol initialized",
		"request_id", requestcontext.RequestID(ctx),
		"admin", cfg.Admin,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromConfig(cfg))
}

func (h *AdminHandler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[UpdateConfigRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	cfg, err := h.service.UpdateConfig(ctx, service.UpdateConfigRequest{
		Actor:               id.Identity(req.Actor),
		NewAdmin:            identityPtr(req.NewAdmin),
		FeeCollector:        identityPtr(req.FeeCollector),
		Paused:              req.Paused,
		Phase:               req.Phase,
		BasePriceUSDMicro:   req.BasePriceUSDMicro,
		AnnualIncreaseBPS:   req.AnnualIncreaseBPS,
		UpdateFeeBPS:        req.UpdateFeeBPS,
		NativeUSDFeed:       feedPtr(req.NativeUSDFeed),
		PoolTokenReserve:    poolPtr(req.PoolTokenReserve),
		PoolNativeReserve:   poolPtr(req.PoolNativeReserve),
		KeeperRewardNative:  req.KeeperRewardNative,
		RecordDepositNative: req.RecordDepositNative,
		ReserveFloorNative:  req.ReserveFloorNative,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "config update failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromConfig(cfg))
}

func (h *AdminHandler) handleSeedSymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[SeedSymbolRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.SeedSymbol(ctx, service.SeedSymbolRequest{
		Actor:  id.Identity(req.Actor),
		Symbol: req.Symbol,
		Mint:   id.TokenRef(req.Mint),
		Owner:  id.Identity(req.Owner),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "symbol seeding failed",
			"request_id", requestcontext.RequestID(ctx),
			"symbol", req.Symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Record:          fromRecord(result.Record),
		MetadataMutable: result.MetadataMutable,
		Payment:         fromPayment(result.Payment),
	})
}

func (h *AdminHandler) handleCloseSymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	actor := id.Identity(r.Header.Get("X-Admin-Identity"))
	result, err := h.service.AdminCloseSymbol(ctx, actor, symbol)
	if err != nil {
		h.logger.ErrorContext(ctx, "admin close failed",
			"request_id", requestcontext.RequestID(ctx),
			"symbol", symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromClose(result))
}
