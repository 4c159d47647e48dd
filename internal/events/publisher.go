package events

import (
	"context"
	"encoding/json"

	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *CloudEvent) error
	Close() error
}

// LogPublisher writes events to the structured log. It is used when no
// broker is configured.
type LogPublisher struct{}

var _ Publisher = LogPublisher{}

// Publish logs the event envelope.
func (LogPublisher) Publish(_ context.Context, event *CloudEvent) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		metrics.RecordEventPublished(event.Type, "failure")
		return err
	}
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("subject", event.Subject).
		RawJSON("data", payload).
		Msg("Domain event")
	metrics.RecordEventPublished(event.Type, "success")
	return nil
}

// Close implements Publisher.
func (LogPublisher) Close() error { return nil }
