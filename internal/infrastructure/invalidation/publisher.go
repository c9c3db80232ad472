package invalidation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
	"github.com/agriops/farmledger/internal/usecase"
)

// EventPublisher drains the outbox. Postings queue events in the same
// transaction as the ledger writes; this worker delivers them after commit,
// so cache invalidation never observes a rolled-back posting.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	batchSize  int
	interval   time.Duration
	retention  time.Duration
	cleanupGap time.Duration
}

// Publisher delivers a single outbox event.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo      usecase.OutboxRepository
	Publisher       Publisher
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	BatchSize       int           // Number of events to fetch per batch
	Interval        time.Duration // Polling interval
	Retention       time.Duration // How long published events are kept
	CleanupInterval time.Duration // How often published events are pruned
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}
	if cfg.Retention == 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		retention:  cfg.Retention,
		cleanupGap: cfg.CleanupInterval,
	}
}

// Start begins the publishing worker. It runs until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info("outbox publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	cleanup := time.NewTicker(ep.cleanupGap)
	defer cleanup.Stop()

	// Drain whatever accumulated while the engine was down.
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error("error processing events on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info("outbox publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error("error processing events", slog.String("error", err.Error()))
			}
		case <-cleanup.C:
			if err := ep.pruneEvents(ctx); err != nil {
				ep.logger.Error("error pruning published events", slog.String("error", err.Error()))
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if ep.metrics != nil {
		ep.metrics.OutboxPending.Set(float64(len(events)))
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug("processing events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := ep.publishEvent(ctx, event); err != nil {
			ep.logger.Error("failed to publish event",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			// Continue processing other events even if one fails
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, time.Now()); err != nil {
			ep.logger.Error("failed to mark event as published",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
			continue
		}

		if ep.metrics != nil {
			ep.metrics.OutboxPublished.Inc()
		}
	}

	return nil
}

// pruneEvents deletes published events past the retention window.
func (ep *EventPublisher) pruneEvents(ctx context.Context) error {
	return ep.outboxRepo.DeletePublished(ctx, time.Now().Add(-ep.retention))
}

// publishEvent publishes a single event.
func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	ep.logger.Debug("publishing event",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID))

	return ep.publisher.Publish(ctx, event)
}

// LogPublisher logs events instead of delivering them. Useful when the
// engine runs without Redis and invalidation has nowhere to go.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
