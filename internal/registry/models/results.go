package models

import (
	"time"

	id "tns/pkg/domain"
)

// Payment summarizes what an operation collected, in the chosen currency's
// smallest units. The host performs the actual transfers; these figures are
// what the registry instructed it to move.
type Payment struct {
	Currency       Currency
	FeePaid        uint64
	PlatformFee    uint64
	KeeperFunding  uint64 // native units routed into the keeper reserve
	DepositFunding uint64 // native units routed into the record deposit
}

// RegisterResult is returned by Register and admin seeding.
type RegisterResult struct {
	Record *SymbolRecord
	// MetadataMutable surfaces whether the bound metadata can still change;
	// mutable metadata is what makes a later drift-close possible.
	MetadataMutable bool
	Payment         Payment
}

// RenewResult is returned by Renew.
type RenewResult struct {
	Record       *SymbolRecord
	OldExpiresAt time.Time
	Payment      Payment
}

// ClaimResult is returned by Claim.
type ClaimResult struct {
	Record        *SymbolRecord
	PreviousOwner id.Identity
	PreviousMint  id.TokenRef
	Payment       Payment
}

// UpdateMintResult is returned by UpdateMint.
type UpdateMintResult struct {
	Record  *SymbolRecord
	OldMint id.TokenRef
	Payment Payment
}

// TransferResult is returned by TransferOwnership.
type TransferResult struct {
	Record   *SymbolRecord
	OldOwner id.Identity
}

// ClaimOwnershipResult is returned by ClaimOwnership.
type ClaimOwnershipResult struct {
	Record   *SymbolRecord
	OldOwner id.Identity
	Path     ClaimPath
}

// CloseResult is returned by Cancel and DriftClose. The keeper reward is best
// effort: RewardPaid is zero (and RewardSkipped true) when the reserve could
// not cover it without breaching its floor.
type CloseResult struct {
	Symbol          id.Symbol
	PreviousOwner   id.Identity
	PreviousMint    id.TokenRef
	DepositRefunded uint64
	RewardPaid      uint64
	RewardSkipped   bool
	// MetadataSymbol is set by DriftClose with the diverged live symbol.
	MetadataSymbol string
}

// Quote is a priced registration term before currency conversion.
type Quote struct {
	Years          uint8
	YearlyUSDMicro uint64
	TotalUSDMicro  uint64
	DiscountBPS    uint16
}
