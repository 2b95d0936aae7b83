// Package postgres persists audit events. Writes go through the
// transactional outbox so they commit atomically with the domain change
// that caused them; the Kafka relay publishes them and the consumer
// materializes them back into audit_events for querying.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	id "pulsemarket/pkg/domain"
	audit "pulsemarket/pkg/platform/audit"
	txcontext "pulsemarket/pkg/platform/tx"

	"github.com/google/uuid"
)

// eventColumns is the audit_events read set, in scan order.
const eventColumns = `category, timestamp, business_id, lender_id, subject, action,
	stage, decision, reason, request_id, client_ip, user_agent, actor_id`

// Store implements audit.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer returns the transaction bound to ctx when there is one, so an
// audit write rides the same commit as the operation it records.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON shape published to Kafka. Field names match
// audit.Event so the consumer can map them back.
type outboxPayload struct {
	ID         string `json:"ID"`
	Category   string `json:"Category"`
	Timestamp  string `json:"Timestamp"`
	BusinessID string `json:"BusinessID,omitempty"`
	LenderID   string `json:"LenderID,omitempty"`
	Subject    string `json:"Subject"`
	Action     string `json:"Action"`
	Stage      string `json:"Stage,omitempty"`
	Decision   string `json:"Decision,omitempty"`
	Reason     string `json:"Reason,omitempty"`
	RequestID  string `json:"RequestID,omitempty"`
	ClientIP   string `json:"ClientIP,omitempty"`
	UserAgent  string `json:"UserAgent,omitempty"`
	ActorID    string `json:"ActorID,omitempty"`
}

// Append stages an audit event in the outbox. The category is always
// re-derived from the action, ignoring whatever the caller set.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(audit.AuditEvent(event.Action).Category()),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Stage:     event.Stage,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
		UserAgent: event.UserAgent,
		ActorID:   event.ActorID,
	}

	// Events tied to a business aggregate under it so the relay keys the
	// Kafka message by business and per-business ordering holds.
	aggregateType, aggregateID := "audit", eventID.String()
	if !event.BusinessID.IsNil() {
		payload.BusinessID = event.BusinessID.String()
		aggregateType, aggregateID = "business", event.BusinessID.String()
	}
	if !event.LenderID.IsNil() {
		payload.LenderID = event.LenderID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = s.execer(ctx).ExecContext(ctx,
		`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), aggregateType, aggregateID, event.Action, body, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// AppendWithID materializes a consumed event under its stream ID.
// Redeliveries hit ON CONFLICT DO NOTHING, keeping the table exactly-once.
func (s *Store) AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error {
	var businessID, lenderID *uuid.UUID
	if !event.BusinessID.IsNil() {
		bid := uuid.UUID(event.BusinessID)
		businessID = &bid
	}
	if !event.LenderID.IsNil() {
		lid := uuid.UUID(event.LenderID)
		lenderID = &lid
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (
			id, category, timestamp, business_id, lender_id, subject, action,
			stage, decision, reason, request_id, client_ip, user_agent, actor_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING`,
		eventID,
		string(event.Category),
		event.Timestamp,
		businessID,
		lenderID,
		event.Subject,
		event.Action,
		event.Stage,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.UserAgent,
		event.ActorID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByBusiness returns the event history for one business, newest first.
func (s *Store) ListByBusiness(ctx context.Context, businessID id.BusinessID) ([]audit.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM audit_events
		WHERE business_id = $1
		ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(businessID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListAll returns every materialized event, newest first.
func (s *Store) ListAll(ctx context.Context) ([]audit.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM audit_events
		ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListRecent returns the limit most recent events across all businesses.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event      audit.Event
			category   string
			businessID *uuid.UUID
			lenderID   *uuid.UUID
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&businessID,
			&lenderID,
			&event.Subject,
			&event.Action,
			&event.Stage,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.UserAgent,
			&event.ActorID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if businessID != nil {
			event.BusinessID = id.BusinessID(*businessID)
		}
		if lenderID != nil {
			event.LenderID = id.LenderID(*lenderID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
