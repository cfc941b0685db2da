package events

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryPublisher buffers events in memory. Tests assert against Events();
// single-process deployments can use it as a no-infra sink.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher returns an empty in-memory sink.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// LogPublisher writes events to the structured log. Useful as a fallback sink
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher wraps a logger as an event sink.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "registry event",
		"event_id", event.ID,
		"event_type", event.Type,
		"symbol", event.Symbol,
		"actor", event.Actor,
		"fee_paid", event.FeePaid,
		"currency", event.Currency,
	)
	return nil
}
