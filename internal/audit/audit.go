package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

// Event records one successful order lifecycle transition.
type Event struct {
	Action  string    `json:"action"`
	OrderID string    `json:"order_id"`
	StaffID uint      `json:"staff_id"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// KafkaPublisher ships lifecycle events to the order_events topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("audit: write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is the no-broker fallback: events land in the structured
// log instead of a topic.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event Event) error {
	logging.FromContext(ctx).Info("audit_event",
		"action", event.Action,
		"order_id", event.OrderID,
		"staff_id", event.StaffID,
	)
	return nil
}
