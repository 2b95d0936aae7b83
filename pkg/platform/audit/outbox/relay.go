// Package outbox relays audit events from the transactional outbox
// table to Kafka. Rows are claimed with SKIP LOCKED so multiple relay
// instances can run side by side, and a circuit breaker backs off from
// the brokers after repeated produce failures.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pulsemarket/pkg/platform/circuit"

	"github.com/lib/pq"
)

// Producer publishes one record to the audit topic.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// Relay polls the outbox table and publishes unpublished entries.
type Relay struct {
	db       *sql.DB
	producer Producer
	breaker  *circuit.Breaker
	logger   *slog.Logger

	interval  time.Duration
	batchSize int
}

// Option configures the Relay.
type Option func(*Relay)

// WithInterval sets the polling interval. Default is one second.
func WithInterval(d time.Duration) Option {
	return func(r *Relay) { r.interval = d }
}

// WithBatchSize sets how many rows are claimed per poll. Default is 100.
func WithBatchSize(n int) Option {
	return func(r *Relay) { r.batchSize = n }
}

func New(db *sql.DB, producer Producer, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		db:        db,
		producer:  producer,
		breaker:   circuit.New("audit-outbox", circuit.WithFailureThreshold(3)),
		logger:    logger,
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r.breaker.IsOpen() {
				// Probe with a single row so the breaker can close again.
				if err := r.relayBatch(ctx, 1); err != nil {
					r.logger.WarnContext(ctx, "outbox relay probe failed", "error", err)
				}
				continue
			}
			if err := r.relayBatch(ctx, r.batchSize); err != nil {
				r.logger.ErrorContext(ctx, "outbox relay batch failed", "error", err)
			}
		}
	}
}

type outboxRow struct {
	id        string
	eventType string
	payload   []byte
}

// relayBatch claims up to limit unpublished rows, publishes them, and
// marks them published. Rows stay claimed only for the transaction
// lifetime, so a crash releases them for the next poll.
func (r *Relay) relayBatch(ctx context.Context, limit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outbox tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, event_type, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return fmt.Errorf("claim outbox rows: %w", err)
	}

	var batch []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.eventType, &row.payload); err != nil {
			rows.Close()
			return fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()

	if len(batch) == 0 {
		return nil
	}

	published := make([]string, 0, len(batch))
	for _, row := range batch {
		if err := r.producer.Produce(ctx, []byte(row.id), row.payload); err != nil {
			if _, change := r.breaker.RecordFailure(); change.Opened {
				r.logger.ErrorContext(ctx, "audit publish circuit opened",
					"event_type", row.eventType,
					"error", err,
				)
			}
			// Unpublished rows remain in the outbox for the next poll.
			break
		}
		if _, change := r.breaker.RecordSuccess(); change.Closed {
			r.logger.InfoContext(ctx, "audit publish circuit closed")
		}
		published = append(published, row.id)
	}

	if len(published) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE outbox SET published_at = NOW() WHERE id = ANY($1)
		`, pq.Array(published)); err != nil {
			return fmt.Errorf("mark outbox published: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit outbox tx: %w", err)
	}
	return nil
}
