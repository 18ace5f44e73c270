// Package events publishes generated drafts and template outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/freedom_case_2/replydraft/internal/models"
)

// OutcomeEvent is emitted every time an agent reports whether a template-based
// draft was accepted.
type OutcomeEvent struct {
	TemplateID  string    `json:"template_id"`
	Success     bool      `json:"success"`
	SuccessRate float64   `json:"success_rate"`
	UsageCount  int       `json:"usage_count"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type Publisher interface {
	PublishResponse(ctx context.Context, resp models.GeneratedResponse) error
	PublishOutcome(ctx context.Context, ev OutcomeEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	responses messageWriter
	outcomes  messageWriter
}

// flushInterval bounds how long a synchronous publish waits for its batch.
const flushInterval = 10 * time.Millisecond

func NewKafkaPublisher(brokers []string, responsesTopic, outcomesTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		responses: newWriter(brokers, responsesTopic),
		outcomes:  newWriter(brokers, outcomesTopic),
	}
}

// newWriter partitions by message key so events sharing a key stay ordered.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           flushInterval,
		AllowAutoTopicCreation: true,
	}
}

// PublishResponse sends the draft keyed by ticket id, so drafts of one ticket
// stay ordered within a partition.
func (p *KafkaPublisher) PublishResponse(ctx context.Context, resp models.GeneratedResponse) error {
	return send(ctx, p.responses, resp.TicketID, resp)
}

func (p *KafkaPublisher) PublishOutcome(ctx context.Context, ev OutcomeEvent) error {
	return send(ctx, p.outcomes, ev.TemplateID, ev)
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(p.responses.Close(), p.outcomes.Close())
}

func send(ctx context.Context, w messageWriter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data})
}

// Noop discards every event; used when no brokers are configured.
type Noop struct{}

func (Noop) PublishResponse(context.Context, models.GeneratedResponse) error { return nil }
func (Noop) PublishOutcome(context.Context, OutcomeEvent) error              { return nil }
func (Noop) Close() error                                                    { return nil }
