package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSymbolRecordTemporalStates(t *testing.T) {
	registered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &SymbolRecord{
		Symbol:       "ABC",
		Mint:         "mint-abc",
		Owner:        "alice",
		RegisteredAt: registered,
		ExpiresAt:    registered.Add(2 * Year),
	}

	tests := []struct {
		name string
		at   time.Time
		want TemporalState
	}{
		{"immediately after registration", registered, StateActive},
		{"at the expiry instant", record.ExpiresAt, StateActive},
		{"one second past expiry", record.ExpiresAt.Add(time.Second), StateGrace},
		{"at the end of grace", record.ExpiresAt.Add(GracePeriod), StateGrace},
		{"past grace", record.ExpiresAt.Add(GracePeriod + time.Second), StateClaimable},
		{"a year past grace", record.ExpiresAt.Add(GracePeriod + CancelPeriod + time.Second), StateCancelable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, record.StateAt(tt.at))
		})
	}
}

func TestTemporalPredicatesAgree(t *testing.T) {
	registered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &SymbolRecord{ExpiresAt: registered.Add(Year)}

	// Walk a four-year window; at every point exactly one state holds and the
	// predicates stay consistent with it.
	for offset := time.Duration(0); offset < 4*365*24*time.Hour; offset += 24 * time.Hour {
		at := registered.Add(offset)
		switch record.StateAt(at) {
		case StateActive:
			assert.True(t, record.IsActive(at))
			assert.False(t, record.IsExpired(at))
		case StateGrace:
			assert.True(t, record.IsInGrace(at))
			assert.False(t, record.IsExpired(at))
		case StateClaimable:
			assert.True(t, record.IsExpired(at))
			assert.False(t, record.IsCancelable(at))
		case StateCancelable:
			assert.True(t, record.IsExpired(at))
			assert.True(t, record.IsCancelable(at))
		}
	}
}

func TestCurrencyModes(t *testing.T) {
	assert.Equal(t, ModeNative, CurrencyNative.Mode())
	assert.Equal(t, ModePegged, CurrencyUSDC.Mode())
	assert.Equal(t, ModePegged, CurrencyUSDT.Mode())
	assert.Equal(t, ModeProtocolToken, CurrencyToken.Mode())

	assert.True(t, CurrencyNative.IsValid())
	assert.False(t, Currency("doge").IsValid())
}

func TestProtocolConfigHasTokenOracle(t *testing.T) {
	cfg := &ProtocolConfig{}
	assert.False(t, cfg.HasTokenOracle())

	cfg.PoolTokenReserve = "pool-token"
	assert.False(t, cfg.HasTokenOracle(), "both reserves are required")

	cfg.PoolNativeReserve = "pool-native"
	assert.True(t, cfg.HasTokenOracle())
}

func TestClone(t *testing.T) {
	record := &SymbolRecord{Symbol: "ABC", Owner: "alice"}
	clone := record.Clone()
	clone.Owner = "bob"
	assert.Equal(t, "alice", record.Owner.String())

	var nilRecord *SymbolRecord
	assert.Nil(t, nilRecord.Clone())
}
