// Package domain holds the typed identifiers shared across the registry.
// These are domain primitives: construct them through the Parse helpers at
// trust boundaries so validity is enforced once, not at every call site.
package domain

import (
	dErrors "tns/pkg/domain-errors"
)

// Identity is an opaque account identity supplied by the host environment
// (a wallet address, key hash, or similar). The registry never interprets
// its contents beyond equality.
type Identity string

// IsNil returns true when no identity was supplied.
func (i Identity) IsNil() bool { return i == "" }

func (i Identity) String() string { return string(i) }

// TokenRef references a token (a mint) in the host environment. Like
// Identity it is compared, never parsed.
type TokenRef string

// IsNil returns true when no token reference was supplied.
func (t TokenRef) IsNil() bool { return t == "" }

func (t TokenRef) String() string { return string(t) }

// FeedRef references a price-oracle feed account in the host environment.
type FeedRef string

// IsNil returns true when no feed is configured.
func (f FeedRef) IsNil() bool { return f == "" }

func (f FeedRef) String() string { return string(f) }

// PoolRef references a liquidity-pool reserve account.
type PoolRef string

// IsNil returns true when no pool account is configured.
func (p PoolRef) IsNil() bool { return p == "" }

func (p PoolRef) String() string { return string(p) }

// MaxSymbolLength bounds ticker symbols, matching common exchange limits.
const MaxSymbolLength = 10

// Symbol is a registered ticker symbol. Symbols are case-sensitive and keyed
// exactly as registered; classification lookups normalize separately.
type Symbol string

// ParseSymbol validates the symbol format: non-empty, at most 10 characters,
// alphanumeric only. The original casing is preserved.
func ParseSymbol(s string) (Symbol, error) {
	if s == "" || len(s) > MaxSymbolLength {
		return "", dErrors.New(dErrors.CodeInvalidSymbol, "symbol must be 1-10 characters")
	}
	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		isLower := r >= 'a' && r <= 'z'
		if !isDigit && !isUpper && !isLower {
			return "", dErrors.New(dErrors.CodeInvalidSymbol, "symbol must contain only alphanumeric characters")
		}
	}
	return Symbol(s), nil
}

func (s Symbol) String() string { return string(s) }

// IsNil returns true when the symbol is empty.
func (s Symbol) IsNil() bool { return s == "" }
