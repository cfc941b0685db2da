package service

import (
	"context"
	"time"

	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// InitializeRequest bootstraps the protocol config singleton.
type InitializeRequest struct {
	Admin             id.Identity
	FeeCollector      id.Identity
	ReserveAccount    id.Identity
	BasePriceUSDMicro uint64
	AnnualIncreaseBPS uint16
	UpdateFeeBPS      uint16
	NativeUSDFeed     id.FeedRef

	KeeperRewardNative  uint64
	RecordDepositNative uint64
	ReserveFloorNative  uint64

	LaunchAt time.Time
}

// Initialize creates the protocol config. The protocol starts paused in the
// genesis phase; the admin unpauses through UpdateConfig once seeding is done.
func (s *Service) Initialize(ctx context.Context, req InitializeRequest) (cfg *models.ProtocolConfig, err error) {
	defer func() { s.metrics.ObserveOperation("initialize", err) }()

	existing, err := s.protocol.Get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load protocol config")
	}
	if existing != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "protocol is already initialized")
	}

	if req.Admin.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "admin identity is required")
	}
	if req.FeeCollector.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "fee collector identity is required")
	}
	if req.ReserveAccount.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reserve account identity is required")
	}
	if req.BasePriceUSDMicro == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "base price must be positive")
	}
	if req.NativeUSDFeed.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "native price feed is required")
	}

	launchAt := req.LaunchAt
	if launchAt.IsZero() {
		launchAt = s.now(ctx)
	}

	cfg = &models.ProtocolConfig{
		Version:             1,
		Admin:               req.Admin,
		FeeCollector:        req.FeeCollector,
		ReserveAccount:      req.ReserveAccount,
		BasePriceUSDMicro:   req.BasePriceUSDMicro,
		AnnualIncreaseBPS:   req.AnnualIncreaseBPS,
		UpdateFeeBPS:        req.UpdateFeeBPS,
		NativeUSDFeed:       req.NativeUSDFeed,
		KeeperRewardNative:  req.KeeperRewardNative,
		RecordDepositNative: req.RecordDepositNative,
		ReserveFloorNative:  req.ReserveFloorNative,
		LaunchAt:            launchAt,
		Paused:              true,
		Phase:               models.PhaseGenesis,
	}
	if err := s.protocol.Put(ctx, cfg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store protocol config")
	}

	event := events.New(events.TypeInitialized, s.now(ctx))
	event.Actor = req.Admin.String()
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return cfg, nil
}

// UpdateConfigRequest mutates the admin-controlled knobs. Nil pointers leave
// the current value in place.
type UpdateConfigRequest struct {
	Actor id.Identity

	NewAdmin     *id.Identity
	FeeCollector *id.Identity
	Paused       *bool
	Phase        *uint8

	BasePriceUSDMicro *uint64
	AnnualIncreaseBPS *uint16
	UpdateFeeBPS      *uint16

	NativeUSDFeed     *id.FeedRef
	PoolTokenReserve  *id.PoolRef
	PoolNativeReserve *id.PoolRef

	KeeperRewardNative  *uint64
	RecordDepositNative *uint64
	ReserveFloorNative  *uint64
}

// UpdateConfig applies an admin mutation. The phase may only increase.
func (s *Service) UpdateConfig(ctx context.Context, req UpdateConfigRequest) (cfg *models.ProtocolConfig, err error) {
	defer func() { s.metrics.ObserveOperation("update_config", err) }()

	cfg, err = s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if req.Actor != cfg.Admin {
		return nil, dErrors.New(dErrors.CodeNotAdmin, "only the protocol admin may update the config")
	}

	if req.Phase != nil {
		if *req.Phase < cfg.Phase || *req.Phase > models.PhaseFull {
			return nil, dErrors.Newf(dErrors.CodeInvalidPhase, "phase may only advance, %d to %d is not allowed", cfg.Phase, *req.Phase)
		}
		cfg.Phase = *req.Phase
	}
	if req.NewAdmin != nil {
		if req.NewAdmin.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "new admin identity must not be empty")
		}
		cfg.Admin = *req.NewAdmin
	}
	if req.FeeCollector != nil {
		if req.FeeCollector.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "fee collector identity must not be empty")
		}
		cfg.FeeCollector = *req.FeeCollector
	}
	if req.Paused != nil {
		cfg.Paused = *req.Paused
	}
	if req.BasePriceUSDMicro != nil {
		if *req.BasePriceUSDMicro == 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "base price must be positive")
		}
		cfg.BasePriceUSDMicro = *req.BasePriceUSDMicro
	}
	if req.AnnualIncreaseBPS != nil {
		cfg.AnnualIncreaseBPS = *req.AnnualIncreaseBPS
	}
	if req.UpdateFeeBPS != nil {
		cfg.UpdateFeeBPS = *req.UpdateFeeBPS
	}
	if req.NativeUSDFeed != nil {
		if req.NativeUSDFeed.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "native price feed must not be empty")
		}
		cfg.NativeUSDFeed = *req.NativeUSDFeed
	}
	// The pool refs are set or cleared together; a half-configured market
	// source would silently fall back to the peg.
	if req.PoolTokenReserve != nil || req.PoolNativeReserve != nil {
		if req.PoolTokenReserve == nil || req.PoolNativeReserve == nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "both pool reserves must be supplied together")
		}
		if req.PoolTokenReserve.IsNil() != req.PoolNativeReserve.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "pool reserves must be both set or both empty")
		}
		cfg.PoolTokenReserve = *req.PoolTokenReserve
		cfg.PoolNativeReserve = *req.PoolNativeReserve
	}
	if req.KeeperRewardNative != nil {
		cfg.KeeperRewardNative = *req.KeeperRewardNative
	}
	if req.RecordDepositNative != nil {
		cfg.RecordDepositNative = *req.RecordDepositNative
	}
	if req.ReserveFloorNative != nil {
		cfg.ReserveFloorNative = *req.ReserveFloorNative
	}

	cfg.Version++
	if err := s.protocol.Put(ctx, cfg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store protocol config")
	}

	event := events.New(events.TypeConfigUpdated, s.now(ctx))
	event.Actor = req.Actor.String()
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return cfg, nil
}

// SeedSymbolRequest is an admin-created registration that bypasses payment.
type SeedSymbolRequest struct {
	Actor  id.Identity
	Symbol string
	Mint   id.TokenRef
	// Owner defaults to the token's mint authority when empty.
	Owner id.Identity
}

// SeedSymbol registers a symbol for the maximum term without collecting a
// fee. Used during genesis to hand verified tokens their symbols.
func (s *Service) SeedSymbol(ctx context.Context, req SeedSymbolRequest) (result *models.RegisterResult, err error) {
	defer func() { s.metrics.ObserveOperation("seed_symbol", err) }()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if req.Actor != cfg.Admin {
		return nil, dErrors.New(dErrors.CodeNotAdmin, "only the protocol admin may seed symbols")
	}
	if req.Mint.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	existing, err := s.symbols.Get(ctx, symbol)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load symbol record")
	}
	if existing != nil {
		return nil, dErrors.Newf(dErrors.CodeSymbolExists, "symbol %q is already registered", symbol)
	}

	meta, err := s.inspector.Metadata(ctx, req.Mint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read token metadata")
	}
	if meta.Symbol != symbol.String() {
		return nil, dErrors.Newf(dErrors.CodeMetadataMismatch, "token metadata symbol %q does not match %q", meta.Symbol, symbol)
	}

	owner := req.Owner
	if owner.IsNil() {
		authority, _, err := s.inspector.AuthorityAndSupply(ctx, req.Mint)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read mint authority")
		}
		if authority.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "token has no mint authority and no owner was supplied")
		}
		owner = authority
	}

	now := s.now(ctx)
	expiresAt, err := pricing.ExpiryFor(now, now, models.MaxRegistrationYears)
	if err != nil {
		return nil, err
	}

	record := &models.SymbolRecord{
		Symbol:       symbol,
		Mint:         req.Mint,
		Owner:        owner,
		RegisteredAt: now,
		ExpiresAt:    expiresAt,
	}
	if err := s.symbols.Create(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.AddRegistered(1)

	event := events.New(events.TypeSymbolSeeded, now)
	event.Symbol = symbol
	event.Actor = req.Actor.String()
	event.Owner = owner.String()
	event.Mint = req.Mint.String()
	event.ExpiresAt = expiresAt
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.RegisterResult{
		Record:          record,
		MetadataMutable: meta.IsMutable,
	}, nil
}

// AdminCloseSymbol deletes a record unconditionally. No deposit refund, no
// keeper reward; the reserve keeps the record's funding.
func (s *Service) AdminCloseSymbol(ctx context.Context, actor id.Identity, symbolText string) (result *models.CloseResult, err error) {
	defer func() { s.metrics.ObserveOperation("admin_close", err) }()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if actor != cfg.Admin {
		return nil, dErrors.New(dErrors.CodeNotAdmin, "only the protocol admin may force-close a symbol")
	}
	symbol, err := id.ParseSymbol(symbolText)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := s.symbols.Delete(ctx, symbol); err != nil {
		return nil, err
	}

	s.metrics.AddRegistered(-1)

	event := events.New(events.TypeSymbolCanceled, s.now(ctx))
	event.Symbol = symbol
	event.Actor = actor.String()
	event.Owner = record.Owner.String()
	event.Mint = record.Mint.String()
	event.Detail = map[string]string{"admin_close": "true"}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.CloseResult{
		Symbol:        symbol,
		PreviousOwner: record.Owner,
		PreviousMint:  record.Mint,
	}, nil
}
