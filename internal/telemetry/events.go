package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// EventEmitter publishes sync lifecycle events. Completion of background
// work is observable only through these events, logs and metrics, never
// through the triggering HTTP response.
type EventEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	logger      *zap.Logger
}

type EventEnvelope struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	OccurredAt    string         `json:"occurred_at"`
	Service       string         `json:"service"`
	Environment   string         `json:"environment"`
	Instance      string         `json:"instance,omitempty"`
	GroupJID      string         `json:"group_jid,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

func NewEventEmitter(publisher Publisher, routingKey, service, environment string, logger *zap.Logger) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		logger:      logger,
	}
}

// Emit publishes one event. A nil emitter or publisher is a no-op so callers
// never need to guard.
func (e *EventEmitter) Emit(ctx context.Context, eventType, instance, groupJID string, payload map[string]any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		Instance:      instance,
		GroupJID:      groupJID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		e.logger.Warn("event publish failed",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
