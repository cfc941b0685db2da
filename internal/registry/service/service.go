// Package service implements the registry lifecycle state machine. Every
// operation validates all preconditions against one consistent "now" before
// instructing any transfer or mutating any record, so a host abort never
// leaves partial state.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tns/internal/registry/metrics"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
	"tns/pkg/requestcontext"
)

// Service orchestrates registry operations over the collaborator ports.
type Service struct {
	symbols    ports.SymbolStore
	protocol   ports.ProtocolStore
	classifier ports.Classifier
	oracle     ports.PriceOracle
	pools      ports.PoolReader
	treasury   ports.Treasury
	inspector  ports.TokenInspector

	publisher ports.EventPublisher
	clock     ports.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithClock(clock ports.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the registry service. All ports except the options are
// required.
func New(
	symbols ports.SymbolStore,
	protocol ports.ProtocolStore,
	classifier ports.Classifier,
	oracle ports.PriceOracle,
	pools ports.PoolReader,
	treasury ports.Treasury,
	inspector ports.TokenInspector,
	opts ...Option,
) (*Service, error) {
	if symbols == nil {
		return nil, fmt.Errorf("symbol store is required")
	}
	if protocol == nil {
		return nil, fmt.Errorf("protocol store is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if oracle == nil {
		return nil, fmt.Errorf("price oracle is required")
	}
	if pools == nil {
		return nil, fmt.Errorf("pool reader is required")
	}
	if treasury == nil {
		return nil, fmt.Errorf("treasury is required")
	}
	if inspector == nil {
		return nil, fmt.Errorf("token inspector is required")
	}

	svc := &Service{
		symbols:    symbols,
		protocol:   protocol,
		classifier: classifier,
		oracle:     oracle,
		pools:      pools,
		treasury:   treasury,
		inspector:  inspector,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// now returns the single instant an operation validates and settles against:
// an explicit clock when one was configured, otherwise the request-pinned
// time from the context (which falls back to the wall clock).
func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return requestcontext.Now(ctx)
}

// loadConfig fetches the protocol config, failing before initialization.
func (s *Service) loadConfig(ctx context.Context) (*models.ProtocolConfig, error) {
	cfg, err := s.protocol.Get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load protocol config")
	}
	if cfg == nil {
		return nil, dErrors.New(dErrors.CodeNotInitialized, "protocol is not initialized")
	}
	return cfg, nil
}

// loadUnpaused is loadConfig plus the pause gate shared by every user-facing
// mutating operation.
func (s *Service) loadUnpaused(ctx context.Context) (*models.ProtocolConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Paused {
		return nil, dErrors.New(dErrors.CodePaused, "protocol is paused")
	}
	return cfg, nil
}

// getRecord fetches a record, translating absence into a domain error.
func (s *Service) getRecord(ctx context.Context, symbol id.Symbol) (*models.SymbolRecord, error) {
	record, err := s.symbols.Get(ctx, symbol)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load symbol record")
	}
	if record == nil {
		return nil, dErrors.Newf(dErrors.CodeSymbolNotFound, "symbol %q is not registered", symbol)
	}
	return record, nil
}

// priceSource gathers the normalized USD prices the chosen currency needs.
// Pegged currencies need none; native needs the oracle; the protocol token
// needs the pool reserves plus the oracle when a market source is configured.
func (s *Service) priceSource(ctx context.Context, cfg *models.ProtocolConfig, currency models.Currency, now time.Time) (pricing.PriceSource, error) {
	var src pricing.PriceSource
	if !currency.IsValid() {
		return src, dErrors.Newf(dErrors.CodeInvalidInput, "unsupported currency %q", currency)
	}

	needNative := currency.Mode() == models.ModeNative ||
		(currency.Mode() == models.ModeProtocolToken && cfg.HasTokenOracle())
	if needNative {
		snap, err := s.oracle.ReadPrice(ctx, cfg.NativeUSDFeed)
		if err != nil {
			return src, dErrors.Wrap(err, dErrors.CodeInvalidPrice, "failed to read native price feed")
		}
		nativeUSD, err := pricing.USDMicroFromSnapshot(snap, now)
		if err != nil {
			return src, err
		}
		src.NativeUSDMicro = nativeUSD
	}

	if currency.Mode() == models.ModeProtocolToken && cfg.HasTokenOracle() {
		tokenReserve, err := s.pools.Reserve(ctx, cfg.PoolTokenReserve)
		if err != nil {
			return src, dErrors.Wrap(err, dErrors.CodeInvalidPrice, "failed to read pool token reserve")
		}
		nativeReserve, err := s.pools.Reserve(ctx, cfg.PoolNativeReserve)
		if err != nil {
			return src, dErrors.Wrap(err, dErrors.CodeInvalidPrice, "failed to read pool native reserve")
		}
		tokenUSD, err := pricing.TokenPriceFromPool(nativeReserve, tokenReserve, src.NativeUSDMicro)
		if err != nil {
			return src, err
		}
		src.TokenUSDMicro = tokenUSD
	}

	return src, nil
}

// collectFee splits a converted fee and instructs the transfers: treasury
// share to the fee collector, referrer share to the platform account.
func (s *Service) collectFee(
	ctx context.Context,
	cfg *models.ProtocolConfig,
	payer id.Identity,
	currency models.Currency,
	amount uint64,
	platformFeeBPS uint16,
	platformAccount id.Identity,
) (models.Payment, error) {
	payment := models.Payment{Currency: currency}

	treasuryAmount, platformAmount, err := pricing.SplitPlatformFee(amount, platformFeeBPS)
	if err != nil {
		return payment, err
	}
	if platformAmount > 0 && platformAccount.IsNil() {
		return payment, dErrors.New(dErrors.CodeInvalidInput, "platform fee requires a platform account")
	}

	if err := s.treasury.Transfer(ctx, payer, cfg.FeeCollector, treasuryAmount, currency); err != nil {
		return payment, dErrors.Wrap(err, dErrors.CodeInsufficientFunds, "fee transfer failed")
	}
	if platformAmount > 0 {
		if err := s.treasury.Transfer(ctx, payer, platformAccount, platformAmount, currency); err != nil {
			return payment, dErrors.Wrap(err, dErrors.CodeInsufficientFunds, "platform fee transfer failed")
		}
	}

	payment.FeePaid = amount
	payment.PlatformFee = platformAmount
	return payment, nil
}

// fundReserve moves the keeper reward and record deposit from the payer into
// the reserve account and credits the ledger.
func (s *Service) fundReserve(ctx context.Context, cfg *models.ProtocolConfig, payer id.Identity) (reward, deposit uint64, err error) {
	total := cfg.KeeperRewardNative + cfg.RecordDepositNative
	if total == 0 {
		return 0, 0, nil
	}
	if err := s.treasury.Transfer(ctx, payer, cfg.ReserveAccount, total, models.CurrencyNative); err != nil {
		return 0, 0, dErrors.Wrap(err, dErrors.CodeInsufficientFunds, "reserve funding transfer failed")
	}
	if _, err := s.protocol.CreditReserve(ctx, total); err != nil {
		return 0, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit reserve")
	}
	return cfg.KeeperRewardNative, cfg.RecordDepositNative, nil
}
