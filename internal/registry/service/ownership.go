package service

import (
	"context"

	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/ports"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// TransferRequest hands a record to a new owner.
type TransferRequest struct {
	Owner    id.Identity
	Symbol   string
	NewOwner id.Identity
}

// TransferOwnership reassigns the record to a new owner. Owner only, no fee.
func (s *Service) TransferOwnership(ctx context.Context, req TransferRequest) (result *models.TransferResult, err error) {
	defer func() { s.metrics.ObserveOperation("transfer_ownership", err) }()

	if _, err := s.loadUnpaused(ctx); err != nil {
		return nil, err
	}
	if req.Owner.IsNil() || req.NewOwner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner and new owner are required")
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
		return nil, dErrors.Newf(dErrors.CodeNotOwner, "only the owner of %q may transfer it", symbol)
	}
	if req.NewOwner == record.Owner {
		return nil, dErrors.New(dErrors.CodeSameOwner, "new owner matches the current owner")
	}

	oldOwner := record.Owner
	record.Owner = req.NewOwner
	if err := s.symbols.Update(ctx, record); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	event := events.New(events.TypeOwnershipTransferred, now)
	event.Symbol = symbol
	event.Actor = req.Owner.String()
	event.Owner = req.NewOwner.String()
	event.Detail = map[string]string{"previous_owner": oldOwner.String()}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.TransferResult{Record: record, OldOwner: oldOwner}, nil
}

// ClaimOwnershipRequest asserts token-level control over a record.
type ClaimOwnershipRequest struct {
	Claimant id.Identity
	Symbol   string
}

// ClaimOwnership reassigns a record to whoever proves control of its token.
// Control is checked in precedence order: mint authority, then metadata
// update authority, then strict majority of the circulating supply. Token
// control always outranks the registry owner of record.
func (s *Service) ClaimOwnership(ctx context.Context, req ClaimOwnershipRequest) (result *models.ClaimOwnershipResult, err error) {
	defer func() { s.metrics.ObserveOperation("claim_ownership", err) }()

	if _, err := s.loadUnpaused(ctx); err != nil {
		return nil, err
	}
	if req.Claimant.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "claimant is required")
	}
	symbol, err := id.ParseSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if record.Owner == req.Claimant {
		return nil, dErrors.New(dErrors.CodeSameOwner, "claimant already owns the record")
	}

	path, err := s.authorityPath(ctx, record.Mint, req.Claimant)
	if err != nil {
		return nil, err
	}

	oldOwner := record.Owner
	record.Owner = req.Claimant
	if err := s.symbols.Update(ctx, record); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	event := events.New(events.TypeOwnershipClaimed, now)
	event.Symbol = symbol
	event.Actor = req.Claimant.String()
	event.Owner = req.Claimant.String()
	event.Mint = record.Mint.String()
	event.Detail = map[string]string{
		"previous_owner": oldOwner.String(),
		"claim_path":     string(path),
	}
	ports.LogEvent(ctx, s.logger, s.publisher, event)

	return &models.ClaimOwnershipResult{
		Record:   record,
		OldOwner: oldOwner,
		Path:     path,
	}, nil
}

// authorityPath finds the first control proof the claimant satisfies over the
// token, or NoAuthorityPath when none holds.
func (s *Service) authorityPath(ctx context.Context, mint id.TokenRef, claimant id.Identity) (models.ClaimPath, error) {
	authority, supply, err := s.inspector.AuthorityAndSupply(ctx, mint)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read mint authority")
	}
	if !authority.IsNil() && authority == claimant {
		return models.ClaimPathMintAuthority, nil
	}

	meta, err := s.inspector.Metadata(ctx, mint)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read token metadata")
	}
	if !meta.UpdateAuthority.IsNil() && meta.UpdateAuthority == claimant {
		return models.ClaimPathUpdateAuthority, nil
	}

	balance, err := s.inspector.BalanceOf(ctx, mint, claimant)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read claimant balance")
	}
	// Strict majority: exactly half of the supply does not qualify.
	if supply > 0 && balance > supply/2 {
		return models.ClaimPathMajorityHolder, nil
	}

	return "", dErrors.New(dErrors.CodeNoAuthorityPath, "claimant controls neither authority nor a supply majority")
}
