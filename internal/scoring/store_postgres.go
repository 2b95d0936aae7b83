package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// PostgresStore persists score records in PostgreSQL, one row per
// business, overwritten in place on each run.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *ScoreRecord) error {
	breakdown, err := json.Marshal(record.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal score breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scores (
			business_id, pulse_score, profit_score, profit_computed,
			status, failure_reason, breakdown, evidence_version, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (business_id) DO UPDATE SET
			pulse_score      = EXCLUDED.pulse_score,
			profit_score     = EXCLUDED.profit_score,
			profit_computed  = EXCLUDED.profit_computed,
			status           = EXCLUDED.status,
			failure_reason   = EXCLUDED.failure_reason,
			breakdown        = EXCLUDED.breakdown,
			evidence_version = EXCLUDED.evidence_version,
			last_updated     = EXCLUDED.last_updated
	`, uuid.UUID(record.BusinessID), record.PulseScore, record.ProfitScore,
		record.ProfitComputed, string(record.Status), record.FailureReason,
		breakdown, record.EvidenceVersion, record.LastUpdated)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, businessID id.BusinessID) (*ScoreRecord, error) {
	var (
		record    ScoreRecord
		status    string
		breakdown []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT pulse_score, profit_score, profit_computed, status,
		       failure_reason, breakdown, evidence_version, last_updated
		FROM scores
		WHERE business_id = $1
	`, uuid.UUID(businessID)).Scan(
		&record.PulseScore, &record.ProfitScore, &record.ProfitComputed,
		&status, &record.FailureReason, &breakdown,
		&record.EvidenceVersion, &record.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get score: %w", err)
	}
	record.BusinessID = businessID
	record.Status = ScoreStatus(status)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &record.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal score breakdown: %w", err)
		}
	}
	return &record, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[ScoreStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM scores GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("count scores: %w", err)
	}
	defer rows.Close()

	counts := make(map[ScoreStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan score count: %w", err)
		}
		counts[ScoreStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score counts: %w", err)
	}
	return counts, nil
}
