package service

import (
	"context"

	"tns/internal/registry/models"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// Resolution is a record together with its derived temporal state.
type Resolution struct {
	Record *models.SymbolRecord
	State  models.TemporalState
}

// Resolve looks up a symbol and derives its temporal state at the current
// time. Read-only: the pause flag does not apply.
func (s *Service) Resolve(ctx context.Context, symbolText string) (*Resolution, error) {
	symbol, err := id.ParseSymbol(symbolText)
	if err != nil {
		return nil, err
	}
	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Record: record,
		State:  record.StateAt(s.now(ctx)),
	}, nil
}

// PriceQuote is a term quote converted into a payment currency.
type PriceQuote struct {
	Quote    *models.Quote
	Currency models.Currency
	// Amount is the cost in the currency's smallest units.
	Amount uint64
}

// QuotePrice prices an n-year term in the given currency at the current
// price level.
func (s *Service) QuotePrice(ctx context.Context, years uint8, currency models.Currency) (*PriceQuote, error) {
	if !currency.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unsupported currency %q", currency)
	}
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now(ctx)
	quote, err := pricing.QuoteYears(cfg, now, years)
	if err != nil {
		return nil, err
	}
	src, err := s.priceSource(ctx, cfg, currency, now)
	if err != nil {
		return nil, err
	}
	amount, err := pricing.ConvertUSD(quote.TotalUSDMicro, currency, src)
	if err != nil {
		return nil, err
	}

	return &PriceQuote{Quote: quote, Currency: currency, Amount: amount}, nil
}

// ListSymbols returns all registered records.
func (s *Service) ListSymbols(ctx context.Context) ([]*models.SymbolRecord, error) {
	records, err := s.symbols.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list symbol records")
	}
	return records, nil
}
