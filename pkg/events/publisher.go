package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error
	Close() error
}

// Emitter publishes v1 events to the shop exchange. A nil Emitter or one without a
// publisher drops events silently, which is how the API runs without a broker.
type Emitter struct {
	publisher Publisher
	service   string
}

func NewEmitter(publisher Publisher, service string) *Emitter {
	return &Emitter{publisher: publisher, service: service}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.publisher != nil
}

// Emit publishes the event and logs, rather than returns, a failure: the state change
// it reports has already been committed.
func (e *Emitter) Emit(ctx context.Context, name string, payload any) {
	if !e.Enabled() {
		return
	}

	headers := NewHeaders(e.service)
	event := NewEvent(name, EventVersionV1, payload, headers)

	if err := e.publisher.Publish(ctx, ShopExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", name),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}
