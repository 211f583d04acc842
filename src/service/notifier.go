package service

import (
	"encoding/json"
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
	"github.com/abhinavmishra97/ai-call-processing-service/src/rabbitmq"

	"github.com/google/uuid"
)

// EventPublisher broadcasts lifecycle events to the call-events exchange.
// Publishing is fire-and-forget: failures are logged and swallowed so the
// ingestion path and the pipeline are never blocked by a broker outage.
type EventPublisher struct {
	publisher rabbitmq.Publisher
	exchange  string
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(publisher rabbitmq.Publisher, exchange string) *EventPublisher {
	return &EventPublisher{
		publisher: publisher,
		exchange:  exchange,
	}
}

// NotifyStateChange implements Notifier.
func (e *EventPublisher) NotifyStateChange(callID string, state models.CallState, data map[string]string) {
	event := models.CallEvent{
		EventID: uuid.New().String(),
		Type:    models.EventTypeStateChange,
		CallID:  callID,
		State:   state,
		Data:    data,
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal call event", "call_id", callID, "error", err)
		return
	}

	if err := e.publisher.Publish(e.exchange, body); err != nil {
		slog.Warn("Failed to publish call event",
			"call_id", callID,
			"state", state,
			"error", err)
	}
}
