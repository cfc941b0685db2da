// Package treasury provides the value-movement adapter behind the Treasury
// port. The memory ledger backs tests and single-process deployments; a real
// deployment replaces it with the host environment's settlement rails.
package treasury

import (
	"context"
	"sync"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

type accountKey struct {
	identity id.Identity
	currency models.Currency
}

// MemoryLedger tracks per-identity balances in each currency and refuses
// transfers the payer cannot cover.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[accountKey]uint64
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[accountKey]uint64)}
}

// Deposit credits an account out of thin air. Test and dev funding only.
func (l *MemoryLedger) Deposit(identity id.Identity, currency models.Currency, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[accountKey{identity, currency}] += amount
}

// Balance returns the current balance of an account.
func (l *MemoryLedger) Balance(identity id.Identity, currency models.Currency) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountKey{identity, currency}]
}

// Transfer moves value between two accounts atomically.
func (l *MemoryLedger) Transfer(_ context.Context, from, to id.Identity, amount uint64, currency models.Currency) error {
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := accountKey{from, currency}
	if l.balances[fromKey] < amount {
		return dErrors.Newf(dErrors.CodeInsufficientFunds, "%s cannot cover %d %s", from, amount, currency)
	}
	l.balances[fromKey] -= amount
	l.balances[accountKey{to, currency}] += amount
	return nil
}
