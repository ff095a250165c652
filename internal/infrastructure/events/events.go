package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aryan0dhankhar/venueguard/internal/reliability/circuitbreaker"
)

// Publisher emits record lifecycle events
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Subjects
const (
	IncidentCreated = "incident.created"
	IncidentUpdated = "incident.updated"
	IncidentDeleted = "incident.deleted"
	WarningCreated  = "warning.created"
	WarningUpdated  = "warning.updated"
	WarningDeleted  = "warning.deleted"
	BanCreated      = "ban.created"
	BanUpdated      = "ban.updated"
	BanDeleted      = "ban.deleted"
	OffenderCreated = "offender.created"
	OffenderUpdated = "offender.updated"
	OffenderDeleted = "offender.deleted"
	VenueCreated    = "venue.created"
	VenueUpdated    = "venue.updated"
	VenueDeleted    = "venue.deleted"
	UserVenuesSet   = "user.venues.updated"
)

// RecordEvent is the payload of every lifecycle event
type RecordEvent struct {
	ID      string    `json:"id"`
	ActorID string    `json:"actor_id"`
	At      time.Time `json:"at"`
	// Affected counts records touched as a side effect, such as warnings
	// updated when an incident is deleted.
	Affected int64 `json:"affected,omitempty"`
}

type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url, nats.Name("venueguard"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	n.logger.DebugContext(ctx, "publishing event", slog.String("subject", subject))
	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NoopPublisher drops every event. It is used when no NATS url is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// GuardedPublisher stops calling the wrapped publisher while its circuit is
// open, so an unreachable broker does not slow down every mutation.
type GuardedPublisher struct {
	next    Publisher
	breaker *circuitbreaker.CircuitBreaker
}

func NewGuardedPublisher(next Publisher, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) *GuardedPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("event publisher circuit changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &GuardedPublisher{next: next, breaker: breaker}
}

func (g *GuardedPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return g.breaker.Execute(func() error {
		return g.next.Publish(ctx, subject, data)
	})
}

func (g *GuardedPublisher) Close() error { return g.next.Close() }
