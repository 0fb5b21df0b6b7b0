package events

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/logging"
)

// LoggingPublisher only records that an event happened.
type LoggingPublisher struct {
	log logging.Logger
}

func NewLoggingPublisher(log logging.Logger) *LoggingPublisher {
	return &LoggingPublisher{log: log.With("module", "events")}
}

func (p *LoggingPublisher) Publish(ctx context.Context, event Event) error {
	var messageID string
	if event.Payload != nil {
		messageID = event.Payload.ID
	}
	p.log.Info(ctx, "event published",
		"event_type", event.Type,
		"receiver_id", event.ReceiverID(),
		"message_id", messageID,
	)
	return nil
}

func (p *LoggingPublisher) Close() error { return nil }
