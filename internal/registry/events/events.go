// Package events defines the registry's emitted events and the publisher
// implementations. Events are transport-agnostic so sinks can fan out: the
// kafka publisher feeds indexers, the memory publisher feeds tests.
package events

import (
	"time"

	"github.com/google/uuid"

	id "tns/pkg/domain"
)

// Type names a registry event.
type Type string

const (
	TypeInitialized          Type = "protocol_initialized"
	TypeConfigUpdated        Type = "config_updated"
	TypeSymbolRegistered     Type = "symbol_registered"
	TypeSymbolSeeded         Type = "symbol_seeded"
	TypeSymbolRenewed        Type = "symbol_renewed"
	TypeSymbolClaimed        Type = "symbol_claimed"
	TypeMintUpdated          Type = "mint_updated"
	TypeOwnershipTransferred Type = "ownership_transferred"
	TypeOwnershipClaimed     Type = "ownership_claimed"
	TypeSymbolCanceled       Type = "symbol_canceled"
	TypeSymbolDriftClosed    Type = "symbol_drift_closed"
)

// Event captures one registry mutation. Monetary amounts are smallest-unit
// integers in the listed currency.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	At        time.Time `json:"at"`
	Symbol    id.Symbol `json:"symbol,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	Mint      string    `json:"mint,omitempty"`
	Years     uint8     `json:"years,omitempty"`
	FeePaid   uint64    `json:"fee_paid,omitempty"`
	Platform  uint64    `json:"platform_fee,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	// Detail holds event-specific context: the claim path, the diverged
	// metadata symbol, the previous owner, and similar.
	Detail map[string]string `json:"detail,omitempty"`
}

// New constructs an event with a fresh ID and timestamp.
func New(eventType Type, at time.Time) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: eventType,
		At:   at,
	}
}
