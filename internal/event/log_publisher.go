package event

import (
	"context"
	"log/slog"
)

// LogEventPublisher records events in the application log instead of a broker.
type LogEventPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*LogEventPublisher)(nil)

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LogEventPublisher{logger: logger.With("component", "LogEventPublisher")}
}

func (p *LogEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.InfoContext(ctx, "Customer event", "routingKey", routingKeyCustomerCreated, "customerID", event.Payload.ID)
	return nil
}

func (p *LogEventPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error {
	p.logger.InfoContext(ctx, "Customer event", "routingKey", routingKeyCustomerUpdated, "customerID", event.Payload.ID)
	return nil
}

func (p *LogEventPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	p.logger.InfoContext(ctx, "Customer event", "routingKey", routingKeyCustomerDeleted, "customerID", event.CustomerID)
	return nil
}
