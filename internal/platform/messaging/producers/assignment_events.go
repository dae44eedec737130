package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/MhisterKhing6/shortly/internal/config"
)

// Event names carried on the assignment stream
const (
	EventAssignmentCreated       = "assignment.created"
	EventAssignmentStatusChanged = "assignment.status_changed"
	EventAssignmentReconciled    = "assignment.reconciled"
)

// AssignmentEvent is the wire shape of one lifecycle event. Downstream
// reporting consumes these; the engine never reads them back.
type AssignmentEvent struct {
	Name         string `json:"name"`
	AssignmentID string `json:"assignment_id"`
	OfficeID     string `json:"office_id"`
	RiderID      string `json:"rider_id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	OccurredAt   int64  `json:"occurred_at"`
}

// AssignmentEventProducer publishes assignment lifecycle events to Kafka
type AssignmentEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewAssignmentEventProducer creates the producer and ensures the topic exists
func NewAssignmentEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*AssignmentEventProducer, error) {
	if cfg.AssignmentTopic == "" {
		return nil, fmt.Errorf("kafka assignment topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for assignment event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.AssignmentTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure assignment topic %s exists: %w", cfg.AssignmentTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.AssignmentTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Events are best-effort, keep request latency flat
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write assignment events asynchronously", "topic", cfg.AssignmentTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote assignment events asynchronously", "topic", cfg.AssignmentTopic, "count", len(messages))
			}
		},
	}

	return &AssignmentEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.AssignmentTopic,
	}, nil
}

func (p *AssignmentEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish assignment event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish assignment event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published assignment event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *AssignmentEventProducer) Close() error {
	p.logger.Info("Closing assignment event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
