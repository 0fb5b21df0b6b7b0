// Package events publishes message notifications for realtime fan-out.
// Delivery is best effort; persistence never depends on it.
package events

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

const TypeMessage = "message"

// Event is what subscribers of a receiver's stream get.
type Event struct {
	Type    string          `json:"type"`
	Payload *models.Message `json:"payload"`
}

func NewMessageEvent(m *models.Message) Event {
	return Event{Type: TypeMessage, Payload: m}
}

// ReceiverID is the routing key of the event.
func (e Event) ReceiverID() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.ReceiverID
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.EventsBackend.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Publisher, error) {
	switch cfg.EventsBackend {
	case "", config.EventsLog:
		return NewLoggingPublisher(log), nil
	case config.EventsRedis:
		client, err := Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisPublisher(client), nil
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
	}
}
