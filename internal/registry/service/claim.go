package service

import (
	"context"

	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// ClaimRequest re-registers an expired symbol for a new owner.
type ClaimRequest struct {
	Claimant        id.Identity
	Symbol          string
	Mint            id.TokenRef
	Years           uint8
	Currency        models.Currency
	MaxCost         uint64
	PlatformFeeBPS  uint16
	PlatformAccount id.Identity
}

// Claim takes over a symbol whose grace period has lapsed. The claimant pays
// a fresh term at the current price level; the record keeps its key and its
// original registration timestamp but its owner, mint, and expiry reset. No
// keeper funding is collected: the original registration already funded the
// reserve for this record.
func (s *Service) Claim(ctx context.Context, req ClaimRequest) (result *models.ClaimResult, err error) {
	defer func() { s.metrics.ObserveOperation("claim", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Claimant.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "claimant is required")
	}
	if req.Mint.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}

	now := s.now(ctx)
	if !record.IsExpired(now) {
		return nil, dErrors.Newf(dErrors.CodeSymbolNotExpired, "symbol %q is still reserved for its owner", symbol)
	}

	meta, err := s.inspector.Metadata(ctx, req.Mint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read token metadata")
	}
	if meta.Symbol != symbol.String() {
		return nil, dErrors.Newf(dErrors.CodeMetadataMismatch, "token metadata symbol %q does not match %q", meta.Symbol, symbol)
	}

	expiresAt, err := pricing.ExpiryFor(now, now, req.Years)
	if err != nil {
		return nil, err
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
	if req.Currency.Mode() == models.ModeNative {
		if err := pricing.CheckSlippage(amount, req.MaxCost); err != nil {
			return nil, err
		}
	}

	payment, err := s.collectFee(ctx, cfg, req.Claimant, req.Currency, amount, req.PlatformFeeBPS, req.PlatformAccount)
	if err != nil {
		return nil, err
	}

	previousOwner := record.Owner
	previousMint := record.Mint
	record.Owner = req.Claimant
	record.Mint = req.Mint
	record.ExpiresAt = expiresAt
	if err := s.symbols.Update(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.ObserveFeeUSDMicro(quote.TotalUSDMicro)

	event := events.New(events.TypeSymbolClaimed, now)
	event.Symbol = symbol
	event.Actor = req.Claimant.String()
	event.Owner = req.Claimant.String()
	event.Mint = req.Mint.String()
	event.Years = req.Years
	event.FeePaid = payment.FeePaid
	event.Platform = payment.PlatformFee
	event.Currency = string(req.Currency)
	event.ExpiresAt = expiresAt
	event.Detail = map[string]string{
		"previous_owner": previousOwner.String(),
		"previous_mint":  previousMint.String(),
	}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.ClaimResult{
		Record:        record,
		PreviousOwner: previousOwner,
		PreviousMint:  previousMint,
		Payment:       payment,
	}, nil
}
