package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// EventPublisher publishes domain events to the assignment event stream.
// Publishing is best-effort: services log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
