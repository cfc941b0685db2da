// Package symbol persists symbol records. The memory store backs tests and
// single-process deployments; the postgres store is the durable option.
package symbol

import (
	"context"
	"sync"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// MemoryStore is a map-backed symbol store safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.Symbol]*models.SymbolRecord
}

// NewMemory returns an empty memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[id.Symbol]*models.SymbolRecord),
	}
}

func (s *MemoryStore) Get(_ context.Context, symbol id.Symbol) (*models.SymbolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[symbol]; ok {
		return record.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) Create(_ context.Context, record *models.SymbolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Symbol]; exists {
		return dErrors.Newf(dErrors.CodeSymbolExists, "symbol %q is already registered", record.Symbol)
	}
	s.records[record.Symbol] = record.Clone()
	return nil
}

func (s *MemoryStore) Update(_ context.Context, record *models.SymbolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Symbol]; !exists {
		return dErrors.Newf(dErrors.CodeSymbolNotFound, "symbol %q is not registered", record.Symbol)
	}
	s.records[record.Symbol] = record.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, symbol id.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[symbol]; !exists {
		return dErrors.Newf(dErrors.CodeSymbolNotFound, "symbol %q is not registered", symbol)
	}
	delete(s.records, symbol)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.SymbolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SymbolRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	return out, nil
}
