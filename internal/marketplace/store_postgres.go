package marketplace

import (
	"context"
	"errors"
	"fmt"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresListingStore serves the read-heavy browse path off a pgx
// connection pool, kept separate from the transactional lib/pq stores.
type PostgresListingStore struct {
	pool *pgxpool.Pool
}

func NewPostgresListingStore(pool *pgxpool.Pool) *PostgresListingStore {
	return &PostgresListingStore{pool: pool}
}

const listingColumns = `business_id, name, industry, address, employee_count,
	pulse_score, profit_score, profit_computed, risk_label, last_updated`

func (s *PostgresListingStore) Upsert(ctx context.Context, listing Listing) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO marketplace_listings (
			business_id, name, industry, address, employee_count,
			pulse_score, profit_score, profit_computed, risk_label, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (business_id) DO UPDATE SET
			name            = EXCLUDED.name,
			industry        = EXCLUDED.industry,
			address         = EXCLUDED.address,
			employee_count  = EXCLUDED.employee_count,
			pulse_score     = EXCLUDED.pulse_score,
			profit_score    = EXCLUDED.profit_score,
			profit_computed = EXCLUDED.profit_computed,
			risk_label      = EXCLUDED.risk_label,
			last_updated    = EXCLUDED.last_updated
	`, uuid.UUID(listing.BusinessID), listing.Name, listing.Industry, listing.Address,
		listing.EmployeeCount, listing.PulseScore, listing.ProfitScore,
		listing.ProfitComputed, listing.RiskLabel, listing.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}
	return nil
}

func (s *PostgresListingStore) Remove(ctx context.Context, businessID id.BusinessID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM marketplace_listings WHERE business_id = $1`,
		uuid.UUID(businessID))
	if err != nil {
		return fmt.Errorf("remove listing: %w", err)
	}
	return nil
}

func (s *PostgresListingStore) Get(ctx context.Context, businessID id.BusinessID) (*Listing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM marketplace_listings WHERE business_id = $1`,
		uuid.UUID(businessID))
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

func (s *PostgresListingStore) All(ctx context.Context) ([]Listing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM marketplace_listings
		ORDER BY pulse_score DESC, last_updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var all []Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		all = append(all, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return all, nil
}

func (s *PostgresListingStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM marketplace_listings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

func scanListing(row pgx.Row) (*Listing, error) {
	var (
		listing    Listing
		businessID uuid.UUID
	)
	err := row.Scan(&businessID, &listing.Name, &listing.Industry, &listing.Address,
		&listing.EmployeeCount, &listing.PulseScore, &listing.ProfitScore,
		&listing.ProfitComputed, &listing.RiskLabel, &listing.LastUpdated)
	if err != nil {
		return nil, err
	}
	listing.BusinessID = id.BusinessID(businessID)
	return &listing, nil
}
