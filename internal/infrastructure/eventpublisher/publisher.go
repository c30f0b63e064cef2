package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/iho/creditline/internal/domain"
)

// LogPublisher is a simple publisher that logs messages.
// It stands in for a broker when none is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "log_publisher").Logger()}
}

// Publish logs each message at debug level. It never fails.
func (p *LogPublisher) Publish(ctx context.Context, messages ...domain.Message) error {
	for _, m := range messages {
		payload, err := json.Marshal(m.Payload)
		if err != nil {
			p.logger.Warn().Err(err).Str("type", m.Type).Msg("unencodable message payload")
			continue
		}

		p.logger.Debug().
			Str("type", m.Type).
			Str("key", m.Key).
			RawJSON("payload", payload).
			Msg("message published")
	}

	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error {
	return nil
}
