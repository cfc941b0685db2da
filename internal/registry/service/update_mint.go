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

// UpdateMintRequest repoints a symbol at a different token.
type UpdateMintRequest struct {
	Owner           id.Identity
	Symbol          string
	NewMint         id.TokenRef
	Currency        models.Currency
	MaxCost         uint64
	PlatformFeeBPS  uint16
	PlatformAccount id.Identity
}

// UpdateMint replaces the record's token reference for a fee of a fixed
// fraction of the current yearly price. Owner only, and only while the record
// has not lapsed past its grace period.
func (s *Service) UpdateMint(ctx context.Context, req UpdateMintRequest) (result *models.UpdateMintResult, err error) {
	defer func() { s.metrics.ObserveOperation("update_mint", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	if req.NewMint.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "new mint is required")
	}
	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if record.Owner != req.Owner {
		return nil, dErrors.Newf(dErrors.CodeNotOwner, "only the owner of %q may update its mint", symbol)
	}

	now := s.now(ctx)
	if record.IsExpired(now) {
		return nil, dErrors.Newf(dErrors.CodeSymbolExpired, "symbol %q has expired; claim it instead", symbol)
	}
	if record.Mint == req.NewMint {
		return nil, dErrors.New(dErrors.CodeSameMint, "new mint matches the current mint")
	}

	meta, err := s.inspector.Metadata(ctx, req.NewMint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read token metadata")
	}
	if meta.Symbol != symbol.String() {
		return nil, dErrors.Newf(dErrors.CodeMetadataMismatch, "token metadata symbol %q does not match %q", meta.Symbol, symbol)
	}

	feeUSD, err := pricing.UpdateFeeUSDMicro(cfg, now)
	if err != nil {
		return nil, err
	}
	src, err := s.priceSource(ctx, cfg, req.Currency, now)
	if err != nil {
		return nil, err
	}
	amount, err := pricing.ConvertUSD(feeUSD, req.Currency, src)
	if err != nil {
		return nil, err
	}
	if req.Currency.Mode() == models.ModeNative {
		if err := pricing.CheckSlippage(amount, req.MaxCost); err != nil {
			return nil, err
		}
	}

	payment, err := s.collectFee(ctx, cfg, req.Owner, req.Currency, amount, req.PlatformFeeBPS, req.PlatformAccount)
	if err != nil {
		return nil, err
	}

	oldMint := record.Mint
	record.Mint = req.NewMint
	if err := s.symbols.Update(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.ObserveFeeUSDMicro(feeUSD)

	event := events.New(events.TypeMintUpdated, now)
	event.Symbol = symbol
	event.Actor = req.Owner.String()
	event.Owner = record.Owner.String()
	event.Mint = req.NewMint.String()
	event.FeePaid = payment.FeePaid
	event.Platform = payment.PlatformFee
	event.Currency = string(req.Currency)
	event.Detail = map[string]string{"previous_mint": oldMint.String()}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.UpdateMintResult{
		Record:  record,
		OldMint: oldMint,
		Payment: payment,
	}, nil
}
