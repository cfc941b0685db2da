package service

import (
	"context"
	"strconv"
	"time"

	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// CancelRequest destroys a long-abandoned record.
type CancelRequest struct {
	Keeper id.Identity
	Symbol string
}

// Cancel deletes a record once it has sat unclaimed a full year past its
// grace period. Anyone may trigger it; the caller receives the record's
// deposit back plus, reserve funds permitting, the flat keeper reward.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (result *models.CloseResult, err error) {
	defer func() { s.metrics.ObserveOperation("cancel", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Keeper.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "keeper is required")
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
	if !record.IsCancelable(now) {
		return nil, dErrors.Newf(dErrors.CodeNotYetCancelable, "symbol %q has not been abandoned long enough to cancel", symbol)
	}

	return s.closeRecord(ctx, cfg, record, req.Keeper, now, events.TypeSymbolCanceled, "")
}

// DriftCloseRequest destroys a record whose token metadata diverged.
type DriftCloseRequest struct {
	Keeper id.Identity
	Symbol string
}

// DriftClose deletes a record whose token's live metadata symbol no longer
// matches the registered symbol, regardless of expiry. Changing a token's
// metadata after registration forfeits the registration.
func (s *Service) DriftClose(ctx context.Context, req DriftCloseRequest) (result *models.CloseResult, err error) {
	defer func() { s.metrics.ObserveOperation("drift_close", err) }()

	cfg, err := s.loadUnpaused(ctx)
	if err != nil {
		return nil, err
	}
	if req.Keeper.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "keeper is required")
	}
	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}

	meta, err := s.inspector.Metadata(ctx, record.Mint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read token metadata")
	}
	if meta.Symbol == symbol.String() {
		return nil, dErrors.Newf(dErrors.CodeNoDriftDetected, "token metadata still reads %q", symbol)
	}

	now := s.now(ctx)
	return s.closeRecord(ctx, cfg, record, req.Keeper, now, events.TypeSymbolDriftClosed, meta.Symbol)
}

// closeRecord deletes the record and settles the keeper: the record deposit
// comes back in full, the reward only while the reserve stays above its
// floor. A skipped reward is an outcome, not a failure.
func (s *Service) closeRecord(
	ctx context.Context,
	cfg *models.ProtocolConfig,
	record *models.SymbolRecord,
	keeper id.Identity,
	now time.Time,
	eventType events.Type,
	driftedSymbol string,
) (*models.CloseResult, error) {
	if err := s.symbols.Delete(ctx, record.Symbol); err != nil {
		return nil, err
	}

	result := &models.CloseResult{
		Symbol:         record.Symbol,
		PreviousOwner:  record.Owner,
		PreviousMint:   record.Mint,
		MetadataSymbol: driftedSymbol,
	}

	if cfg.RecordDepositNative > 0 {
		// The registration escrowed this deposit, so the refund is owed in
		// full and may drain the reserve to zero. Only the reward below is
		// gated on the floor.
		ok, err := s.protocol.WithdrawReserve(ctx, cfg.RecordDepositNative)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw record deposit")
		}
		if ok {
			if err := s.treasury.Transfer(ctx, cfg.ReserveAccount, keeper, cfg.RecordDepositNative, models.CurrencyNative); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "deposit refund transfer failed")
			}
			result.DepositRefunded = cfg.RecordDepositNative
		}
	}

	if cfg.KeeperRewardNative > 0 {
		ok, err := s.protocol.DebitReserve(ctx, cfg.KeeperRewardNative, cfg.ReserveFloorNative)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit keeper reward")
		}
		if ok {
			if err := s.treasury.Transfer(ctx, cfg.ReserveAccount, keeper, cfg.KeeperRewardNative, models.CurrencyNative); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "keeper reward transfer failed")
			}
			result.RewardPaid = cfg.KeeperRewardNative
		} else {
			result.RewardSkipped = true
			if s.logger != nil {
				s.logger.InfoContext(ctx, "keeper reward skipped, reserve underfunded",
					"symbol", record.Symbol,
					"keeper", keeper,
				)
			}
		}
		s.metrics.ObserveKeeperReward(result.RewardPaid > 0)
	}

	s.metrics.AddRegistered(-1)

	event := events.New(eventType, now)
	event.Symbol = record.Symbol
	event.Actor = keeper.String()
	event.Owner = record.Owner.String()
	event.Mint = record.Mint.String()
	event.Detail = map[string]string{
		"deposit_refunded": strconv.FormatUint(result.DepositRefunded, 10),
		"reward_paid":      strconv.FormatUint(result.RewardPaid, 10),
	}
	if driftedSymbol != "" {
		event.Detail["metadata_symbol"] = driftedSymbol
	}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return result, nil
}
