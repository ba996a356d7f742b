package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"certvault/internal/platform/metrics"
)

// Publisher delivers one serialized audit event to the stream.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaPublisher produces audit events to a Kafka topic, keyed by
// certificate so per-certificate ordering holds.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	rec := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// Worker drains the outbox on an interval. Publish failures leave events
// pending; the next tick retries them, so delivery is at-least-once.
type Worker struct {
	store     Store
	publisher Publisher
	interval  time.Duration
	batchSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewWorker(store Store, publisher Publisher, interval time.Duration, m *metrics.Metrics, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:     store,
		publisher: publisher,
		interval:  interval,
		batchSize: 100,
		metrics:   m,
		logger:    logger,
	}
}

// Run loops until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of pending events.
func (w *Worker) Drain(ctx context.Context) error {
	events, err := w.store.ListPending(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending audit events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode audit event %s: %w", event.ID, err)
		}
		if err := w.publisher.Publish(ctx, event.CertificateID.String(), value); err != nil {
			w.metrics.IncAuditPublishFailures()
			w.logger.ErrorContext(ctx, "audit event publish failed",
				"event_id", event.ID.String(), "kind", event.Kind, "error", err)
			break
		}
		w.metrics.IncAuditPublished()
		published = append(published, event.ID)
	}

	if len(published) == 0 {
		return nil
	}
	if err := w.store.MarkPublished(ctx, published); err != nil {
		return fmt.Errorf("mark audit events published: %w", err)
	}
	return nil
}
