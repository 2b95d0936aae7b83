package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pulsemarket/internal/platform/kafka/consumer"
	id "pulsemarket/pkg/domain"
	audit "pulsemarket/pkg/platform/audit"

	"github.com/google/uuid"
)

// EventsHandler materializes audit events from Kafka into the
// audit_events table so they can be queried by business and by admins.
type EventsHandler struct {
	store  EventsStore
	logger *slog.Logger
}

// EventsStore defines the storage interface for materialized events.
type EventsStore interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// NewEventsHandler creates an audit event materializer.
func NewEventsHandler(store EventsStore, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		store:  store,
		logger: logger,
	}
}

// eventPayload matches the JSON structure written by the outbox store.
type eventPayload struct {
	ID         string `json:"ID"`
	Category   string `json:"Category"`
	Timestamp  string `json:"Timestamp"`
	BusinessID string `json:"BusinessID"`
	LenderID   string `json:"LenderID"`
	Subject    string `json:"Subject"`
	Action     string `json:"Action"`
	Stage      string `json:"Stage"`
	Decision   string `json:"Decision"`
	Reason     string `json:"Reason"`
	RequestID  string `json:"RequestID"`
	ClientIP   string `json:"ClientIP"`
	UserAgent  string `json:"UserAgent"`
	ActorID    string `json:"ActorID"`
}

// Handle processes one audit event message. Malformed messages are
// logged and committed so they never block the partition.
func (h *EventsHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var payload eventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.Error("failed to unmarshal audit payload",
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}

	eventID, err := uuid.Parse(payload.ID)
	if err != nil {
		h.logger.Error("failed to parse audit event ID",
			"id", payload.ID,
			"error", err,
		)
		return nil
	}

	event := audit.Event{
		Category:  audit.EventCategory(payload.Category),
		Subject:   payload.Subject,
		Action:    payload.Action,
		Stage:     payload.Stage,
		Decision:  payload.Decision,
		Reason:    payload.Reason,
		RequestID: payload.RequestID,
		ClientIP:  payload.ClientIP,
		UserAgent: payload.UserAgent,
		ActorID:   payload.ActorID,
	}

	if ts, parseErr := time.Parse(time.RFC3339Nano, payload.Timestamp); parseErr == nil {
		event.Timestamp = ts
	} else {
		event.Timestamp = msg.Timestamp
	}

	if payload.BusinessID != "" {
		if bid, parseErr := uuid.Parse(payload.BusinessID); parseErr == nil {
			event.BusinessID = id.BusinessID(bid)
		}
	}
	if payload.LenderID != "" {
		if lid, parseErr := uuid.Parse(payload.LenderID); parseErr == nil {
			event.LenderID = id.LenderID(lid)
		}
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		h.logger.Error("failed to store audit event",
			"event_id", eventID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store audit event: %w", err)
	}

	h.logger.Debug("stored audit event",
		"event_id", eventID,
		"action", event.Action,
		"business_id", event.BusinessID,
	)

	return nil
}
