package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/creditline/internal/domain"
)

const (
	defaultBatchTimeout = 50 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON value of every published Kafka message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher implements usecase.EventPublisher on a Kafka topic.
type Publisher struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher writing to topic on brokers.
// Messages with the same key land on the same partition.
func NewPublisher(brokers []string, topic string, logger zerolog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           defaultBatchTimeout,
		WriteTimeout:           defaultWriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return newPublisherWithWriter(writer, topic, logger), nil
}

func newPublisherWithWriter(writer messageWriter, topic string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "kafka_publisher").Str("topic", topic).Logger(),
		now:    time.Now,
	}
}

// Publish writes messages in order as a single batch.
func (p *Publisher) Publish(ctx context.Context, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		km, err := p.encode(m)
		if err != nil {
			return err
		}
		batch = append(batch, km)
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("kafka: write %d messages: %w", len(batch), err)
	}

	p.logger.Debug().Int("count", len(batch)).Msg("messages published")
	return nil
}

func (p *Publisher) encode(m domain.Message) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		Type:       m.Type,
		OccurredAt: p.now().UTC(),
		Payload:    m.Payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode %s: %w", m.Type, err)
	}

	return kafka.Message{
		Key:   []byte(m.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(m.Type)},
		},
	}, nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
