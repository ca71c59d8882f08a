package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

const (
	MetadataEventName = "event_name"
	MetadataRequestID = "request_id"
)

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type publisher struct {
	pub message.Publisher
	log *zap.Logger
}

// NewPublisher marshals events to JSON and publishes them on the topic
// named after the event.
func NewPublisher(pub message.Publisher, log *zap.Logger) Publisher {
	return &publisher{
		pub: pub,
		log: log.With(zap.String("component", "event_publisher")),
	}
}

func (p *publisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", evt.EventName(), err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(MetadataEventName, evt.EventName())
	if requestID, ok := utils.GetRequestID(ctx); ok {
		msg.Metadata.Set(MetadataRequestID, requestID)
	}

	if err := p.pub.Publish(evt.EventName(), msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventName(), err)
	}

	p.log.Debug("Event published",
		zap.String("event_name", evt.EventName()),
		zap.String("message_uuid", msg.UUID),
	)
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
