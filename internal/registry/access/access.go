// Package access decides whether an actor may register a symbol given the
// protocol phase and the symbol's classification. It is a pure policy: the
// caller gathers the facts, Check returns a verdict.
package access

import (
	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// Request carries the facts the policy needs for one registration attempt.
type Request struct {
	Phase          uint8
	Admin          id.Identity
	Actor          id.Identity
	Symbol         id.Symbol
	Classification models.Classification
	// Mint is the token reference the actor wants the symbol to resolve to.
	Mint id.TokenRef
	// MintAuthority is the supplied mint's current authority, read by the
	// caller; used to prove control of a verified symbol's bound token.
	MintAuthority id.Identity
}

// Check returns nil when the registration is permitted. Each denial carries a
// distinct code so callers can tell reserved-symbol violations, admin-only
// violations, and whitelist mismatches apart.
func Check(req Request) error {
	if req.Phase >= models.PhaseFull {
		return nil
	}

	switch req.Classification.Kind {
	case models.ClassVerified:
		// Both phases 1 and 2: the actor must control the bound token, and
		// the supplied reference must be the whitelisted one.
		if req.Mint != req.Classification.VerifiedRef {
			return dErrors.Newf(dErrors.CodeVerifiedMismatch, "mint does not match the whitelisted token for %q", req.Symbol)
		}
		if req.MintAuthority.IsNil() || req.Actor != req.MintAuthority {
			return dErrors.Newf(dErrors.CodeNotMintAuthority, "only the mint authority can register verified symbol %q", req.Symbol)
		}
		return nil

	case models.ClassReserved:
		if req.Actor != req.Admin {
			return dErrors.Newf(dErrors.CodeSymbolReserved, "symbol %q is reserved", req.Symbol)
		}
		return nil

	default: // unlisted
		if req.Phase == models.PhaseGenesis && req.Actor != req.Admin {
			return dErrors.New(dErrors.CodeAdminOnlyPhase, "only the administrator can register symbols during genesis")
		}
		return nil
	}
}
