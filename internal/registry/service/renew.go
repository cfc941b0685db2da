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

// RenewRequest extends an existing registration. Renewal is owner-agnostic:
// any payer may fund an extension on the owner's behalf.
type RenewRequest struct {
	Payer           id.Identity
	Symbol          string
	Years           uint8
	Currency        models.Currency
	MaxCost         uint64
	PlatformFeeBPS  uint16
	PlatformAccount id.Identity
}

// Renew extends a record's expiry from its current expiry, priced at the
// current yearly level. Rejected once the record is past its grace period.
func (s *Service) Renew(ctx context.Context, req RenewRequest) (result *models.RenewResult, err error) {
	defer func() { s.metrics.ObserveOperation("renew", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Payer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "payer is required")
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
	if record.IsExpired(now) {
		return nil, dErrors.Newf(dErrors.CodeSymbolExpired, "symbol %q is past its grace period and can no longer be renewed", symbol)
	}

	// Extending from the current expiry, never from now: a renewal can only
	// lengthen the term.
	newExpiresAt, err := pricing.ExpiryFor(record.ExpiresAt, now, req.Years)
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

	payment, err := s.collectFee(ctx, cfg, req.Payer, req.Currency, amount, req.PlatformFeeBPS, req.PlatformAccount)
	if err != nil {
		return nil, err
	}

	oldExpiresAt := record.ExpiresAt
	record.ExpiresAt = newExpiresAt
	if err := s.symbols.Update(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.ObserveFeeUSDMicro(quote.TotalUSDMicro)

	event := events.New(events.TypeSymbolRenewed, now)
	event.Symbol = symbol
	event.Actor = req.Payer.String()
	event.Owner = record.Owner.String()
	event.Years = req.Years
	event.FeePaid = payment.FeePaid
	event.Platform = payment.PlatformFee
	event.Currency = string(req.Currency)
	event.ExpiresAt = newExpiresAt
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.RenewResult{
		Record:       record,
		OldExpiresAt: oldExpiresAt,
		Payment:      payment,
	}, nil
}
