package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ceramica/erp_backend/internal/platform/config"
)

// Event types published after a business operation commits.
const (
	SaleApproved             = "sale.approved"
	SaleCancelled            = "sale.cancelled"
	PurchaseApproved         = "purchase.approved"
	PurchaseCancelled        = "purchase.cancelled"
	ProvisionalSaleSubmitted = "provisional_sale.submitted"
	ProvisionalSaleConverted = "provisional_sale.converted"
)

// Event is a domain fact. Events are keyed by company so one company's events stay ordered.
type Event struct {
	Type       string    `json:"type"`
	CompanyID  string    `json:"companyID"`
	EntityID   string    `json:"entityID"`
	ActorID    string    `json:"actorID"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher is the pluggable event sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewPublisher builds a publisher based on configuration.
func NewPublisher(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "noop":
		logger.Info("event publishing disabled; using noop publisher")
		return NoopPublisher{}, nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("kafka publisher needs brokers and a topic")
		}
		return newKafkaPublisher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

type kafkaPublisher struct {
	writer *kafka.Writer
}

func newKafkaPublisher(cfg config.EventsConfig, logger *slog.Logger) *kafkaPublisher {
	kafkaLogger := kafka.LoggerFunc(func(msg string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(msg, args...), slog.String("component", "kafka"))
	})
	kafkaErrorLogger := kafka.LoggerFunc(func(msg string, args ...interface{}) {
		logger.Error(fmt.Sprintf(msg, args...), slog.String("component", "kafka"))
	})
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Logger:       kafkaLogger,
			ErrorLogger:  kafkaErrorLogger,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := encodeMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeMessage(event Event) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	return kafka.Message{
		Key:   []byte(event.CompanyID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}
