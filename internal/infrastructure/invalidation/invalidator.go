package invalidation

import (
	"context"
	"log/slog"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// CacheInvalidator is a Publisher that drops the cache keys named in the
// event payload. Posting already drops its own node's keys after commit;
// this path covers keys cached by other nodes.
type CacheInvalidator struct {
	cache  usecase.Cache
	logger *slog.Logger
}

// NewCacheInvalidator creates a new CacheInvalidator.
func NewCacheInvalidator(cache usecase.Cache, logger *slog.Logger) *CacheInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{
		cache:  cache,
		logger: logger,
	}
}

// Publish deletes the event's cache keys. Events without keys are a no-op.
func (ci *CacheInvalidator) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	keys := cacheKeys(event.Payload)
	if len(keys) == 0 {
		return nil
	}

	if err := ci.cache.Delete(ctx, keys...); err != nil {
		return err
	}

	ci.logger.Debug("cache keys invalidated",
		slog.String("event_id", event.ID),
		slog.Int("keys", len(keys)))

	return nil
}

// cacheKeys extracts the keys from a payload. Events built in memory carry
// []string; events read back from the outbox table carry []any after the
// JSON round trip.
func cacheKeys(payload map[string]any) []string {
	raw, ok := payload["cache_keys"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		keys := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				keys = append(keys, s)
			}
		}
		return keys
	}

	return nil
}
