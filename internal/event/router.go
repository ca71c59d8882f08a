package event

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the consumer side: one audit handler per topic, each
// writing the event to the structured log.
func NewRouter(sub message.Subscriber, wmLogger watermill.LoggerAdapter, log *zap.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          wmLogger,
	}.Middleware)

	audit := NewAuditHandler(log)
	for _, topic := range Topics {
		router.AddNoPublisherHandler("audit_"+topic, topic, sub, audit)
	}

	return router, nil
}

// NewAuditHandler logs every received event.
func NewAuditHandler(log *zap.Logger) message.NoPublishHandlerFunc {
	log = log.With(zap.String("handler", "audit"))
	return func(msg *message.Message) error {
		log.Info("Domain event",
			zap.String("event_name", msg.Metadata.Get(MetadataEventName)),
			zap.String("request_id", msg.Metadata.Get(MetadataRequestID)),
			zap.String("message_uuid", msg.UUID),
			zap.ByteString("payload", msg.Payload),
		)
		return nil
	}
}
