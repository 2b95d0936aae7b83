package interest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// PostgresStore persists interest edges with database-enforced
// uniqueness per (lender, business) pair.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, edge Edge) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO interest_edges (lender_id, business_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lender_id, business_id) DO NOTHING
	`, uuid.UUID(edge.LenderID), uuid.UUID(edge.BusinessID),
		string(edge.Status), edge.CreatedAt, edge.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("create interest edge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create interest edge: %w", err)
	}
	return affected == 1, nil
}

func (s *PostgresStore) Get(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (*Edge, error) {
	var (
		edge   Edge
		status string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT status, created_at, updated_at
		FROM interest_edges
		WHERE lender_id = $1 AND business_id = $2
	`, uuid.UUID(lenderID), uuid.UUID(businessID)).Scan(&status, &edge.CreatedAt, &edge.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get interest edge: %w", err)
	}
	edge.LenderID = lenderID
	edge.BusinessID = businessID
	edge.Status = Status(status)
	return &edge, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID, from, to Status, now time.Time) (*Edge, error) {
	var edge Edge
	err := s.db.QueryRowContext(ctx, `
		UPDATE interest_edges
		SET status = $1, updated_at = $2
		WHERE lender_id = $3 AND business_id = $4 AND status = $5
		RETURNING created_at, updated_at
	`, string(to), now, uuid.UUID(lenderID), uuid.UUID(businessID), string(from)).
		Scan(&edge.CreatedAt, &edge.UpdatedAt)
	if err == nil {
		edge.LenderID = lenderID
		edge.BusinessID = businessID
		edge.Status = to
		return &edge, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update interest edge: %w", err)
	}

	// Distinguish a lost race from a missing edge.
	if _, getErr := s.Get(ctx, lenderID, businessID); getErr != nil {
		return nil, getErr
	}
	return nil, sentinel.ErrVersionMismatch
}

func (s *PostgresStore) ListByLender(ctx context.Context, lenderID id.LenderID, filter ListFilter) ([]Edge, int, error) {
	args := []any{uuid.UUID(lenderID)}
	where := `WHERE lender_id = $1`
	if filter.Status != "" {
		where += ` AND status = $2`
		args = append(args, string(filter.Status))
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interest_edges `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count interest edges: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT business_id, status, created_at, updated_at
		FROM interest_edges
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list interest edges: %w", err)
	}
	defer rows.Close()

	edges := make([]Edge, 0)
	for rows.Next() {
		var (
			edge       Edge
			businessID uuid.UUID
			status     string
		)
		if err := rows.Scan(&businessID, &status, &edge.CreatedAt, &edge.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan interest edge: %w", err)
		}
		edge.LenderID = lenderID
		edge.BusinessID = id.BusinessID(businessID)
		edge.Status = Status(status)
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate interest edges: %w", err)
	}
	return edges, total, nil
}

func (s *PostgresStore) CountByStatusForLender(ctx context.Context, lenderID id.LenderID) (map[Status]int, error) {
	return s.countByStatus(ctx,
		`SELECT status, COUNT(*) FROM interest_edges WHERE lender_id = $1 GROUP BY status`,
		uuid.UUID(lenderID))
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.countByStatus(ctx,
		`SELECT status, COUNT(*) FROM interest_edges GROUP BY status`)
}

func (s *PostgresStore) countByStatus(ctx context.Context, query string, args ...any) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count interest edges: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan interest count: %w", err)
		}
		counts[Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interest counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) CountLenders(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT lender_id) FROM interest_edges`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count lenders: %w", err)
	}
	return count, nil
}
