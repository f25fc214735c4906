package events

import (
	"context"
	"time"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// NewCacheWarmer returns a handler that writes every created link into the
// lookup cache. Set is idempotent, so redelivered events are harmless.
func NewCacheWarmer(cache shortener.Cache, ttl time.Duration, logger *zap.Logger) messaging.Handler[LinkCreated] {
	return func(ctx context.Context, event *LinkCreated) error {
		if event.ShortID == "" || event.LongURL == "" {
			logger.Warn("skipping incomplete link.created event",
				zap.String("short_id", event.ShortID),
			)

			return nil
		}

		if err := cache.Set(ctx, shortener.ShortID(event.ShortID), event.LongURL, ttl); err != nil {
			return err
		}

		logger.Debug("cache warmed", zap.String("short_id", event.ShortID))

		return nil
	}
}

// NewCapacityMonitor returns a handler that reports exhausted ID generation.
// Repeated reports mean the ID space is saturating and the length should grow.
func NewCapacityMonitor(logger *zap.Logger) messaging.Handler[GenerationExhausted] {
	return func(_ context.Context, event *GenerationExhausted) error {
		logger.Warn("short id space under pressure",
			zap.Int("attempts", event.Attempts),
			zap.Time("occurred_at", event.OccurredAt),
		)

		return nil
	}
}
