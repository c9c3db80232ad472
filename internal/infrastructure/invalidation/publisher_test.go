package invalidation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: "party.balance_changed"}},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: "party.balance_changed"},
			{ID: "evt-2", EventType: "item.stock_changed"},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestPruneEventsUsesRetention(t *testing.T) {
	repo := &stubOutboxRepo{}
	ep := newTestPublisher(repo, &stubPublisher{})
	ep.retention = time.Hour

	before := time.Now()
	if err := ep.pruneEvents(context.Background()); err != nil {
		t.Fatalf("pruneEvents failed: %v", err)
	}

	if repo.prunedBefore.IsZero() {
		t.Fatalf("expected DeletePublished to be called")
	}

	cutoff := before.Add(-time.Hour)
	if repo.prunedBefore.Before(cutoff.Add(-time.Minute)) || repo.prunedBefore.After(cutoff.Add(time.Minute)) {
		t.Fatalf("expected cutoff about an hour ago, got %v", repo.prunedBefore)
	}
}

func TestCacheInvalidatorDeletesKeys(t *testing.T) {
	cache := &stubCache{}
	ci := NewCacheInvalidator(cache, discardLogger())

	event := &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: "party.balance_changed",
		Payload: map[string]any{
			"cache_keys": []string{"balance:party:1", "item:10"},
		},
	}

	if err := ci.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(cache.deleted) != 2 || cache.deleted[0] != "balance:party:1" || cache.deleted[1] != "item:10" {
		t.Fatalf("expected both keys deleted, got %#v", cache.deleted)
	}
}

func TestCacheInvalidatorHandlesJSONRoundTrip(t *testing.T) {
	cache := &stubCache{}
	ci := NewCacheInvalidator(cache, discardLogger())

	// Payloads read back from the outbox table decode string slices as []any.
	event := &domain.OutboxEvent{
		ID:        "evt-2",
		EventType: "party.balance_changed",
		Payload: map[string]any{
			"cache_keys": []any{"balance:party:7"},
		},
	}

	if err := ci.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(cache.deleted) != 1 || cache.deleted[0] != "balance:party:7" {
		t.Fatalf("expected round-tripped key deleted, got %#v", cache.deleted)
	}
}

func TestCacheInvalidatorIgnoresEventsWithoutKeys(t *testing.T) {
	cache := &stubCache{}
	ci := NewCacheInvalidator(cache, discardLogger())

	event := &domain.OutboxEvent{ID: "evt-3", EventType: "audit", Payload: map[string]any{}}

	if err := ci.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(cache.deleted) != 0 {
		t.Fatalf("expected no deletes, got %#v", cache.deleted)
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     discardLogger(),
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type stubOutboxRepo struct {
	events       []*domain.OutboxEvent
	marked       []string
	prunedBefore time.Time
}

func (s *stubOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	s.prunedBefore = before
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}

type stubCache struct {
	deleted []string
}

func (s *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (s *stubCache) Delete(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}
