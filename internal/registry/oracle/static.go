// Package oracle provides PriceOracle adapters: a static source for tests and
// development, and a redis read-through cache for production deployments that
// want to bound feed reads.
package oracle

import (
	"context"
	"sync"
	"time"

	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// StaticOracle serves fixed prices per feed. Development wiring and tests set
// prices explicitly; PublishedAt tracks the set time so staleness behaves.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[id.FeedRef]pricing.PriceSnapshot
}

// NewStatic returns an empty static oracle.
func NewStatic() *StaticOracle {
	return &StaticOracle{prices: make(map[id.FeedRef]pricing.PriceSnapshot)}
}

// SetPrice publishes a price for a feed.
func (o *StaticOracle) SetPrice(feed id.FeedRef, price int64, exponent int32, publishedAt time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[feed] = pricing.PriceSnapshot{
		Price:       price,
		Exponent:    exponent,
		PublishedAt: publishedAt,
	}
}

func (o *StaticOracle) ReadPrice(_ context.Context, feed id.FeedRef) (pricing.PriceSnapshot, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	snap, ok := o.prices[feed]
	if !ok {
		return pricing.PriceSnapshot{}, dErrors.Newf(dErrors.CodeInvalidPrice, "no price published for feed %q", feed)
	}
	return snap, nil
}
