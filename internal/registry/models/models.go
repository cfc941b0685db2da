// Package models defines the registry's persistent records and the value
// types shared between services, stores, and transports.
package models

import (
	"time"

	id "tns/pkg/domain"
)

// Registration term limits.
const (
	// MaxRegistrationYears caps a single registration or the total term after
	// renewal, counted from the current time.
	MaxRegistrationYears = 10

	// Year uses 365.25 days so expiries do not drift against leap years.
	Year = 31_557_600 * time.Second

	// GracePeriod keeps an expired symbol reserved for its owner.
	GracePeriod = 90 * 24 * time.Hour

	// CancelPeriod is how long past the grace period a symbol must sit before
	// it can be permanently canceled.
	CancelPeriod = 365 * 24 * time.Hour
)

// TemporalState is the lifecycle state derived purely from a record's expiry
// and the current time.
type TemporalState string

const (
	StateActive     TemporalState = "active"
	StateGrace      TemporalState = "grace"
	StateClaimable  TemporalState = "claimable"
	StateCancelable TemporalState = "cancelable"
)

// SymbolRecord maps a ticker symbol to its owned token reference for a fixed,
// renewable term. The symbol string is the unique key.
type SymbolRecord struct {
	Symbol       id.Symbol
	Mint         id.TokenRef
	Owner        id.Identity
	RegisteredAt time.Time
	ExpiresAt    time.Time
}

// IsActive reports whether the record is within its paid term.
func (r *SymbolRecord) IsActive(now time.Time) bool {
	return !now.After(r.ExpiresAt)
}

// IsInGrace reports whether the record is past expiry but still reserved for
// its owner.
func (r *SymbolRecord) IsInGrace(now time.Time) bool {
	return now.After(r.ExpiresAt) && !now.After(r.ExpiresAt.Add(GracePeriod))
}

// IsExpired reports whether the record is past its grace period and open for
// claiming.
func (r *SymbolRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt.Add(GracePeriod))
}

// IsCancelable reports whether the record has been abandoned long enough to
// be permanently deleted.
func (r *SymbolRecord) IsCancelable(now time.Time) bool {
	return now.After(r.ExpiresAt.Add(GracePeriod + CancelPeriod))
}

// StateAt collapses the temporal predicates into a single state.
func (r *SymbolRecord) StateAt(now time.Time) TemporalState {
	switch {
	case r.IsCancelable(now):
		return StateCancelable
	case r.IsExpired(now):
		return StateClaimable
	case r.IsInGrace(now):
		return StateGrace
	default:
		return StateActive
	}
}

// Clone returns a copy so stores can hand out records without aliasing their
// internal state.
func (r *SymbolRecord) Clone() *SymbolRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Protocol phases. The phase only ever increases.
const (
	PhaseGenesis uint8 = 1
	PhaseOpen    uint8 = 2
	PhaseFull    uint8 = 3
)

// ProtocolConfig is the admin-mutable singleton governing pricing and access.
// Version increments on every update so concurrent admin writes are visible.
type ProtocolConfig struct {
	Version      uint64
	Admin        id.Identity
	FeeCollector id.Identity
	// ReserveAccount holds record deposits and the keeper reward pool.
	ReserveAccount id.Identity

	// Pricing knobs. Prices are fixed-point USD micro-units ($1 = 1_000_000).
	BasePriceUSDMicro uint64
	AnnualIncreaseBPS uint16
	UpdateFeeBPS      uint16

	// Oracle wiring. The pool refs are the protocol token's optional market
	// price source; when absent the token is pegged at $1.
	NativeUSDFeed     id.FeedRef
	PoolTokenReserve  id.PoolRef
	PoolNativeReserve id.PoolRef

	// Keeper economics, all in native base units.
	KeeperRewardNative  uint64
	RecordDepositNative uint64
	ReserveFloorNative  uint64

	LaunchAt time.Time
	Paused   bool
	Phase    uint8
}

// HasTokenOracle reports whether protocol-token payments use a market price
// rather than the $1 peg.
func (c *ProtocolConfig) HasTokenOracle() bool {
	return !c.PoolTokenReserve.IsNil() && !c.PoolNativeReserve.IsNil()
}

// Clone returns a copy for the same aliasing reasons as SymbolRecord.Clone.
func (c *ProtocolConfig) Clone() *ProtocolConfig {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Currency identifies what a caller pays with.
type Currency string

const (
	CurrencyNative Currency = "native" // chain-native asset, oracle priced
	CurrencyUSDC   Currency = "usdc"   // pegged stablecoin, 1:1
	CurrencyUSDT   Currency = "usdt"   // pegged stablecoin, 1:1
	CurrencyToken  Currency = "tns"    // protocol token, discounted
)

// PaymentMode is the pricing behavior behind a currency.
type PaymentMode uint8

const (
	ModeNative PaymentMode = iota
	ModePegged
	ModeProtocolToken
)

var currencyModes = map[Currency]PaymentMode{
	CurrencyNative: ModeNative,
	CurrencyUSDC:   ModePegged,
	CurrencyUSDT:   ModePegged,
	CurrencyToken:  ModeProtocolToken,
}

// IsValid checks the currency is one of the supported enum values.
func (c Currency) IsValid() bool {
	_, ok := currencyModes[c]
	return ok
}

// Mode returns the pricing behavior for the currency.
func (c Currency) Mode() PaymentMode {
	return currencyModes[c]
}

// ClassificationKind is the registration classification of a symbol.
type ClassificationKind string

const (
	// ClassVerified symbols are bound to a known token; only the actor that
	// controls the bound token may register them before phase 3.
	ClassVerified ClassificationKind = "verified"
	// ClassReserved symbols (listed equity tickers and the like) are admin
	// only before phase 3.
	ClassReserved ClassificationKind = "reserved"
	// ClassUnlisted symbols carry no special protection.
	ClassUnlisted ClassificationKind = "unlisted"
)

// Classification is the result of a symbol lookup against the verified and
// reserved lists.
type Classification struct {
	Kind ClassificationKind
	// VerifiedRef is the whitelisted token reference; set only for ClassVerified.
	VerifiedRef id.TokenRef
}

// TokenMetadata is the descriptive metadata the host reads for a token.
type TokenMetadata struct {
	Symbol          string
	IsMutable       bool
	UpdateAuthority id.Identity
}

// ClaimPath records which authority proof satisfied an ownership claim.
type ClaimPath string

const (
	ClaimPathMintAuthority   ClaimPath = "mint_authority"
	ClaimPathUpdateAuthority ClaimPath = "update_authority"
	ClaimPathMajorityHolder  ClaimPath = "majority_holder"
)
