package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/metrics"
)

type BackgroundTasks struct {
	Outbox         domain.OutboxRepository
	Publisher      domain.PublisherPort
	Topic          string
	OutboxInterval time.Duration
	BatchSize      int
	Metrics        *metrics.TransferMetrics
}

var ErrInvalidRelayConfig = errors.New("invalid outbox relay config")

func NewBackgroundTasks(
	outbox domain.OutboxRepository,
	publisher domain.PublisherPort,
	topic string,
	outboxInterval time.Duration,
	batchSize int,
	transferMetrics *metrics.TransferMetrics,
) (*BackgroundTasks, error) {
	if outboxInterval <= 0 {
		return nil, fmt.Errorf("%w: interval %s must be positive", ErrInvalidRelayConfig, outboxInterval)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size %d must be positive", ErrInvalidRelayConfig, batchSize)
	}
	return &BackgroundTasks{
		Outbox:         outbox,
		Publisher:      publisher,
		Topic:          topic,
		OutboxInterval: outboxInterval,
		BatchSize:      batchSize,
		Metrics:        transferMetrics,
	}, nil
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startOutboxRelay(ctx)
}

func (bt *BackgroundTasks) startOutboxRelay(ctx context.Context) {
	ticker := time.NewTicker(bt.OutboxInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Drain in batches so a backlog does not wait one tick per batch.
			for {
				n, err := bt.RelayOutbox(ctx)
				if err != nil {
					slog.Error("outbox relay failed", "error", err)
					break
				}
				if n < bt.BatchSize {
					break
				}
			}
		}
	}
}

// RelayOutbox publishes one batch of pending outbox messages and marks them
// published. A message is published at least once: if marking fails after a
// successful publish, the next run sends it again.
func (bt *BackgroundTasks) RelayOutbox(ctx context.Context) (int, error) {
	pending, err := bt.Outbox.DequeueBatch(ctx, bt.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("dequeue outbox: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	msgs := make([]domain.Message, 0, len(pending))
	ids := make([]string, 0, len(pending))
	for _, m := range pending {
		msgs = append(msgs, domain.Message{
			Key:   []byte(m.AggregateID),
			Value: m.Payload,
		})
		ids = append(ids, m.ID)
	}

	if err := bt.Publisher.Publish(ctx, bt.Topic, msgs...); err != nil {
		if bt.Metrics != nil {
			bt.Metrics.RecordOutboxFailure()
		}
		return 0, fmt.Errorf("publish %d outbox messages: %w", len(msgs), err)
	}
	if err := bt.Outbox.MarkPublished(ctx, ids...); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}

	if bt.Metrics != nil {
		bt.Metrics.RecordOutboxPublished(len(ids))
	}
	slog.Debug("outbox relayed", "topic", bt.Topic, "count", len(ids))
	return len(ids), nil
}
