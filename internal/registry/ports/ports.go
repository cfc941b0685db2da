// Package ports defines the collaborator capabilities the registry consumes.
// The host environment implements these; the service stays storage- and
// chain-agnostic. Interfaces live here when consumed across packages.
package ports

import (
	"context"
	"log/slog"
	"time"

	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	"tns/pkg/requestcontext"
)

// Clock supplies the current time. Operations read it exactly once so a
// single request sees one consistent "now".
type Clock interface {
	Now() time.Time
}

// PriceOracle reads a price feed. Parsing the feed's wire format is the
// adapter's concern; staleness and validity are enforced by the pricing layer
// against the returned snapshot.
type PriceOracle interface {
	ReadPrice(ctx context.Context, feed id.FeedRef) (pricing.PriceSnapshot, error)
}

// PoolReader reads a liquidity-pool reserve balance in smallest units.
type PoolReader interface {
	Reserve(ctx context.Context, ref id.PoolRef) (uint64, error)
}

// Treasury moves value between parties. It fails on insufficient funds; the
// registry always validates before instructing a transfer.
type Treasury interface {
	Transfer(ctx context.Context, from, to id.Identity, amount uint64, currency models.Currency) error
}

// TokenInspector reads live token state from the host environment.
type TokenInspector interface {
	// Metadata returns the token's descriptive metadata.
	Metadata(ctx context.Context, ref id.TokenRef) (models.TokenMetadata, error)

	// AuthorityAndSupply returns the mint authority (possibly nil) and the
	// circulating supply.
	AuthorityAndSupply(ctx context.Context, ref id.TokenRef) (id.Identity, uint64, error)

	// BalanceOf returns how much of the token a holder controls.
	BalanceOf(ctx context.Context, ref id.TokenRef, holder id.Identity) (uint64, error)
}

// Classifier resolves a symbol's registration classification.
type Classifier interface {
	Classify(ctx context.Context, symbol id.Symbol) (models.Classification, error)
}

// EventPublisher emits registry events for indexers and audit trails.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// SymbolStore persists symbol records. Get returns (nil, nil) when the symbol
// is not registered.
type SymbolStore interface {
	Get(ctx context.Context, symbol id.Symbol) (*models.SymbolRecord, error)
	Create(ctx context.Context, record *models.SymbolRecord) error
	Update(ctx context.Context, record *models.SymbolRecord) error
	Delete(ctx context.Context, symbol id.Symbol) error
	List(ctx context.Context) ([]*models.SymbolRecord, error)
}

// ProtocolStore persists the singleton config and the keeper reserve ledger.
// Get returns (nil, nil) before initialization.
type ProtocolStore interface {
	Get(ctx context.Context) (*models.ProtocolConfig, error)
	Put(ctx context.Context, cfg *models.ProtocolConfig) error

	// CreditReserve adds to the reserve and returns the new balance.
	CreditReserve(ctx context.Context, amount uint64) (uint64, error)

	// DebitReserve withdraws amount only if the balance would stay above
	// floor. Returns false, nil when the reserve is underfunded: the caller
	// treats that as a skipped payment, not a failure.
	DebitReserve(ctx context.Context, amount, floor uint64) (bool, error)

	// WithdrawReserve withdraws amount whenever the balance covers it, down
	// to zero. Deposit refunds are owed in full, so unlike DebitReserve no
	// floor is held back. Returns false, nil when the balance is short.
	WithdrawReserve(ctx context.Context, amount uint64) (bool, error)

	// ReserveBalance returns the current reserve balance.
	ReserveBalance(ctx context.Context) (uint64, error)
}

// LogEvent publishes an event and logs it, tolerating a nil publisher. A
// publish failure is logged and swallowed: event delivery is best effort, and
// record mutations must not roll back because a broker was down.
func LogEvent(ctx context.Context, logger *slog.Logger, publisher EventPublisher, event events.Event) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		if event.Detail == nil {
			event.Detail = make(map[string]string, 1)
		}
		event.Detail["request_id"] = requestID
	}

	if logger != nil {
		logger.InfoContext(ctx, "registry event",
			"event_id", event.ID,
			"event_type", event.Type,
			"symbol", event.Symbol,
			"actor", event.Actor,
		)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "event publish failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
	}
}
