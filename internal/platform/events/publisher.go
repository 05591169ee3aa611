// Package events publishes fire-and-forget domain events to NATS JetStream.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectPairRefreshed   = "rankings.pair.refreshed"
	SubjectAggregateBuilt  = "rankings.aggregate.built"
	SubjectCacheInvalidate = "rankings.cache.invalidate"

	// StreamName is the JetStream stream that captures rankings.> subjects.
	StreamName = "RANKINGS"
)

// Event is the envelope sent on every rankings.* subject.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	Source     string         `json:"source"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes events to JetStream. A nil *Publisher is a no-op.
type Publisher struct {
	js     nats.JetStreamContext
	source string
	log    *zap.Logger
}

// New returns a Publisher; js=nil yields a no-op publisher.
func New(js nats.JetStreamContext, source string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{js: js, source: source, log: log}
}

// EnsureStream creates the rankings stream when it does not exist yet.
func EnsureStream(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(StreamName); err == nil {
		return nil
	}
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPairRefreshed, SubjectAggregateBuilt},
		MaxAge:   24 * time.Hour,
	})
	return err
}

// Publish sends an event asynchronously. Failures are logged and never
// reach the caller.
func (p *Publisher) Publish(subject, eventName string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		Source:     p.source,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
