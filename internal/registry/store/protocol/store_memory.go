// Package protocol persists the singleton protocol config and the keeper
// reserve ledger.
package protocol

import (
	"context"
	"sync"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

// MemoryStore holds the config and reserve balance in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	cfg     *models.ProtocolConfig
	reserve uint64
}

// NewMemory returns an uninitialized store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (*models.ProtocolConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, cfg *models.ProtocolConfig) error {
	if cfg == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "config is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clone()
	return nil
}

func (s *MemoryStore) CreditReserve(_ context.Context, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserve += amount
	return s.reserve, nil
}

// DebitReserve withdraws only when the balance stays above the floor.
// Sufficiency is checked under the same lock as the debit so concurrent
// keepers cannot drain the reserve below its floor.
func (s *MemoryStore) DebitReserve(_ context.Context, amount, floor uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserve <= floor+amount {
		return false, nil
	}
	s.reserve -= amount
	return true, nil
}

// WithdrawReserve withdraws whenever the balance covers the amount, even when
// that drains the reserve to zero. Refunded deposits are owed in full and do
// not respect the keeper floor.
func (s *MemoryStore) WithdrawReserve(_ context.Context, amount uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserve < amount {
		return false, nil
	}
	s.reserve -= amount
	return true, nil
}

func (s *MemoryStore) ReserveBalance(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reserve, nil
}
