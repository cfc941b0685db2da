package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is where registry events land unless overridden.
const DefaultTopic = "tns.registry.events"

// KafkaPublisher produces registry events to a kafka topic, keyed by symbol
// so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithTopic overrides the destination topic.
func WithTopic(topic string) KafkaOption {
	return func(p *KafkaPublisher) {
		p.topic = topic
	}
}

// NewKafkaPublisher connects to the given brokers.
func NewKafkaPublisher(brokers []string, opts ...KafkaOption) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	p := &KafkaPublisher{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit produces the event synchronously so the caller knows delivery failed.
// Registry operations treat publish failures as non-fatal; the host's outbox
// retries are the durability story, not this producer.
func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Symbol),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
