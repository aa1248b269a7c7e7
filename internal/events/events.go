// Package events publishes election domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"election-service/internal/config"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
	Close() error
}

func encode(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// New picks the Kafka client named in cfg.Client.
func New(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return NopPublisher{}, nil
	}
	switch cfg.Client {
	case "sarama":
		return NewSaramaPublisher(cfg.Brokers, cfg.Topic)
	case "kafka-go", "":
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic), nil
	default:
		return nil, fmt.Errorf("unknown kafka client %q", cfg.Client)
	}
}
