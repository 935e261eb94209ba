// internal/adapter/events/publisher.go

package events

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"chanalytics/internal/domain/analytics"
)

// Conn is the subset of *nats.Conn used for publishing
type Conn interface {
	Publish(subject string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// CompletedSubject returns the subject report completion events are published on
func CompletedSubject(topic string) string {
	return fmt.Sprintf("%s.completed", topic)
}

// Publisher announces completed reports on the event bus
type Publisher struct {
	eventBus Conn
	topic    string
}

// NewPublisher creates a new report event publisher
func NewPublisher(eventBus Conn, topic string) *Publisher {
	if topic == "" {
		topic = "analytics"
	}
	return &Publisher{
		eventBus: eventBus,
		topic:    topic,
	}
}

// PublishReport publishes the summary of a completed report
func (p *Publisher) PublishReport(ctx context.Context, r analytics.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(r.Summary())
	if err != nil {
		return fmt.Errorf("error marshaling report event: %w", err)
	}

	if err := p.eventBus.Publish(CompletedSubject(p.topic), data); err != nil {
		return fmt.Errorf("error publishing report event: %w", err)
	}

	return nil
}
