// Package classify resolves a symbol's registration classification: verified
// (bound to a known token), reserved (protected listed-equity tickers), or
// unlisted. Lookups normalize to upper case; registration keys do not.
package classify

import (
	"context"
	"strings"
	"sync"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
)

// Source answers classification lookups for the access policy.
type Source struct {
	mu       sync.RWMutex
	verified map[string]id.TokenRef
	reserved map[string]struct{}
}

// New returns a Source seeded with the built-in verified and reserved lists.
func New() *Source {
	s := &Source{
		verified: make(map[string]id.TokenRef, len(seedVerified)),
		reserved: make(map[string]struct{}, len(seedReserved)),
	}
	for sym, ref := range seedVerified {
		s.verified[sym] = ref
	}
	for _, sym := range seedReserved {
		s.reserved[sym] = struct{}{}
	}
	return s
}

// NewEmpty returns a Source with no entries, for tests and phase-3 deployments
// that no longer carry the lists.
func NewEmpty() *Source {
	return &Source{
		verified: make(map[string]id.TokenRef),
		reserved: make(map[string]struct{}),
	}
}

// Classify looks a symbol up against the verified list first, then the
// reserved list. Verified entries win when a symbol appears on both.
func (s *Source) Classify(_ context.Context, symbol id.Symbol) (models.Classification, error) {
	normalized := strings.ToUpper(symbol.String())

	s.mu.RLock()
	defer s.mu.RUnlock()

	if ref, ok := s.verified[normalized]; ok {
		return models.Classification{Kind: models.ClassVerified, VerifiedRef: ref}, nil
	}
	if _, ok := s.reserved[normalized]; ok {
		return models.Classification{Kind: models.ClassReserved}, nil
	}
	return models.Classification{Kind: models.ClassUnlisted}, nil
}

// AddVerified binds a symbol to a token reference on the verified list.
func (s *Source) AddVerified(symbol string, ref id.TokenRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[strings.ToUpper(symbol)] = ref
}

// AddReserved places a symbol on the reserved list.
func (s *Source) AddReserved(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved[strings.ToUpper(symbol)] = struct{}{}
}
