package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
)

// changeFeed announces committed mutations. It drops cached dashboard stats
// and publishes a lifecycle event; neither failure fails the request.
type changeFeed struct {
	publisher events.Publisher
	stats     domain.StatsCache
	logger    *slog.Logger
}

func newChangeFeed(publisher events.Publisher, stats domain.StatsCache, logger *slog.Logger) *changeFeed {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &changeFeed{publisher: publisher, stats: stats, logger: logger}
}

func (c *changeFeed) record(ctx context.Context, subject string, actor domain.Actor, id string, affected int64) {
	if c.stats != nil {
		c.stats.Invalidate(ctx)
	}

	evt := events.RecordEvent{
		ID:       id,
		ActorID:  actor.ID,
		At:       time.Now().UTC(),
		Affected: affected,
	}
	if err := c.publisher.Publish(ctx, subject, evt); err != nil {
		c.logger.Warn("failed to publish event",
			slog.String("subject", subject),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}
}
