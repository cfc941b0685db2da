// Package tokens provides memory-backed adapters for the token-inspection and
// pool-reserve ports. They stand in for the host chain environment; the
// registry only ever sees the port interfaces.
package tokens

import (
	"context"
	"sync"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// TokenRecord is everything the directory knows about one token.
type TokenRecord struct {
	Metadata      models.TokenMetadata
	MintAuthority id.Identity
	Supply        uint64
	Balances      map[id.Identity]uint64
}

// Directory is a concurrent token lookup table implementing TokenInspector.
type Directory struct {
	mu     sync.RWMutex
	tokens map[id.TokenRef]TokenRecord
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{tokens: make(map[id.TokenRef]TokenRecord)}
}

// Put registers or replaces a token record.
func (d *Directory) Put(ref id.TokenRef, record TokenRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens[ref] = record
}

func (d *Directory) lookup(ref id.TokenRef) (TokenRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	record, ok := d.tokens[ref]
	if !ok {
		return TokenRecord{}, dErrors.Newf(dErrors.CodeNotFound, "unknown token %q", ref)
	}
	return record, nil
}

func (d *Directory) Metadata(_ context.Context, ref id.TokenRef) (models.TokenMetadata, error) {
	record, err := d.lookup(ref)
	if err != nil {
		return models.TokenMetadata{}, err
	}
	return record.Metadata, nil
}

func (d *Directory) AuthorityAndSupply(_ context.Context, ref id.TokenRef) (id.Identity, uint64, error) {
	record, err := d.lookup(ref)
	if err != nil {
		return "", 0, err
	}
	return record.MintAuthority, record.Supply, nil
}

func (d *Directory) BalanceOf(_ context.Context, ref id.TokenRef, holder id.Identity) (uint64, error) {
	record, err := d.lookup(ref)
	if err != nil {
		return 0, err
	}
	return record.Balances[holder], nil
}

// PoolBook is a concurrent reserve table implementing PoolReader.
type PoolBook struct {
	mu       sync.RWMutex
	reserves map[id.PoolRef]uint64
}

// NewPoolBook returns an empty pool book.
func NewPoolBook() *PoolBook {
	return &PoolBook{reserves: make(map[id.PoolRef]uint64)}
}

// SetReserve publishes a reserve balance for a pool account.
func (p *PoolBook) SetReserve(ref id.PoolRef, balance uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserves[ref] = balance
}

func (p *PoolBook) Reserve(_ context.Context, ref id.PoolRef) (uint64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	balance, ok := p.reserves[ref]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeEmptyPool, "unknown pool account %q", ref)
	}
	return balance, nil
}
