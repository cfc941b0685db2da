package service

import (
	"context"

	"tns/internal/registry/access"
	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// RegisterRequest registers a fresh symbol for the payer.
type RegisterRequest struct {
	Payer           id.Identity
	Symbol          string
	Mint            id.TokenRef
	Years           uint8
	Currency        models.Currency
	MaxCost         uint64 // slippage guard, native mode only; 0 disables
	PlatformFeeBPS  uint16
	PlatformAccount id.Identity
}

// Register creates a symbol record after format, uniqueness, access-policy,
// and metadata checks, collecting the term fee plus the keeper funding.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (result *models.RegisterResult, err error) {
	defer func() { s.metrics.ObserveOperation("register", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Payer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "payer is required")
	}
	if req.Mint.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}

	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	now := s.now(ctx)
	expiresAt, err := pricing.ExpiryFor(now, now, req.Years)
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

	classification, err := s.classifier.Classify(ctx, symbol)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to classify symbol")
	}

	var mintAuthority id.Identity
	if classification.Kind == models.ClassVerified {
		authority, _, err := s.inspector.AuthorityAndSupply(ctx, req.Mint)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read mint authority")
		}
		mintAuthority = authority
	}

	if err := access.Check(access.Request{
		Phase:          cfg.Phase,
		Admin:          cfg.Admin,
		Actor:          req.Payer,
		Symbol:         symbol,
		Classification: classification,
		Mint:           req.Mint,
		MintAuthority:  mintAuthority,
	}); err != nil {
		return nil, err
	}

	meta, err := s.inspector.Metadata(ctx, req.Mint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read token metadata")
	}
	if meta.Symbol != symbol.String() {
		return nil, dErrors.Newf(dErrors.CodeMetadataMismatch, "token metadata symbol %q does not match %q", meta.Symbol, symbol)
	}

	quote, err := pricing.QuoteYears(cfg, now, req.Years)
	if err != nil {
		return nil, err
	}
	src, err := s.priceSource(ctx, cfg, req.Currency, now)
	if err != nil {
		return nil, err
	}
	amount, err := pricing.ConvertUSD(quote.TotalUSDMicro, req.Currency, src)
	if err != nil {
		return nil, err
	}

	// The slippage guard covers the full native outlay: fee plus the keeper
	// funding that registration always carries.
	if req.Currency.Mode() == models.ModeNative {
		totalCost := amount + cfg.KeeperRewardNative + cfg.RecordDepositNative
		if err := pricing.CheckSlippage(totalCost, req.MaxCost); err != nil {
			return nil, err
		}
	}

	payment, err := s.collectFee(ctx, cfg, req.Payer, req.Currency, amount, req.PlatformFeeBPS, req.PlatformAccount)
	if err != nil {
		return nil, err
	}
	reward, deposit, err := s.fundReserve(ctx, cfg, req.Payer)
	if err != nil {
		return nil, err
	}
	payment.KeeperFunding = reward
	payment.DepositFunding = deposit

	record := &models.SymbolRecord{
		Symbol:       symbol,
		Mint:         req.Mint,
		Owner:        req.Payer,
		RegisteredAt: now,
		ExpiresAt:    expiresAt,
	}
	if err := s.symbols.Create(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.ObserveFeeUSDMicro(quote.TotalUSDMicro)
	s.metrics.AddRegistered(1)

	event := events.New(events.TypeSymbolRegistered, now)
	event.Symbol = symbol
	event.Actor = req.Payer.String()
	event.Owner = req.Payer.String()
	event.Mint = req.Mint.String()
	event.Years = req.Years
	event.FeePaid = payment.FeePaid
	event.Platform = payment.PlatformFee
	event.Currency = string(req.Currency)
	event.ExpiresAt = expiresAt
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.RegisterResult{
		Record:          record,
		MetadataMutable: meta.IsMutable,
		Payment:         payment,
	}, nil
}
