package business

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique index hit.
const uniqueViolation = "23505"

// PostgresIdentityStore persists business identities in PostgreSQL.
type PostgresIdentityStore struct {
	db *sql.DB
}

func NewPostgresIdentityStore(db *sql.DB) *PostgresIdentityStore {
	return &PostgresIdentityStore{db: db}
}

const identityColumns = `
	id, owner_id, name, category, industry, address, employee_count,
	monthly_revenue, rc_number, business_type, registration_confirmed,
	created_at, updated_at
`

// Upsert performs an atomic merge-or-create. Nil fields keep their
// stored value; the conflict guard rejects writes by a different owner.
func (s *PostgresIdentityStore) Upsert(ctx context.Context, businessID id.BusinessID, ownerID id.OwnerID, fields ProfileFields, now time.Time) (*BusinessIdentity, error) {
	query := `
		INSERT INTO businesses (
			id, owner_id, name, category, industry, address,
			employee_count, monthly_revenue, created_at, updated_at
		)
		VALUES ($1, $2, COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
		        COALESCE($7, 0), COALESCE($8, 0), $9, $9)
		ON CONFLICT (id) DO UPDATE SET
			name            = COALESCE($3, businesses.name),
			category        = COALESCE($4, businesses.category),
			industry        = COALESCE($5, businesses.industry),
			address         = COALESCE($6, businesses.address),
			employee_count  = COALESCE($7, businesses.employee_count),
			monthly_revenue = COALESCE($8, businesses.monthly_revenue),
			updated_at      = $9
		WHERE businesses.owner_id = EXCLUDED.owner_id
		RETURNING ` + identityColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.UUID(businessID),
		uuid.UUID(ownerID),
		fields.Name,
		fields.Category,
		fields.Industry,
		fields.Address,
		fields.EmployeeCount,
		fields.MonthlyRevenue,
		now,
	)
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict guard filtered the update: row exists with another owner.
			return nil, sentinel.ErrConflict
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// The owner_id unique index fired: this owner already has a
			// business under a different ID.
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("upsert business: %w", err)
	}
	return identity, nil
}

func (s *PostgresIdentityStore) Get(ctx context.Context, businessID id.BusinessID) (*BusinessIdentity, error) {
	query := `SELECT ` + identityColumns + ` FROM businesses WHERE id = $1`
	identity, err := scanIdentity(s.db.QueryRowContext(ctx, query, uuid.UUID(businessID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return identity, nil
}

func (s *PostgresIdentityStore) GetByOwner(ctx context.Context, ownerID id.OwnerID) (*BusinessIdentity, error) {
	query := `SELECT ` + identityColumns + ` FROM businesses WHERE owner_id = $1`
	identity, err := scanIdentity(s.db.QueryRowContext(ctx, query, uuid.UUID(ownerID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get business by owner: %w", err)
	}
	return identity, nil
}

func (s *PostgresIdentityStore) ConfirmRegistration(ctx context.Context, businessID id.BusinessID, rcNumber id.RCNumber, businessType string, now time.Time) (*BusinessIdentity, error) {
	query := `
		UPDATE businesses SET
			rc_number               = $2,
			business_type           = $3,
			registration_confirmed  = TRUE,
			updated_at              = $4
		WHERE id = $1
		RETURNING ` + identityColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.UUID(businessID),
		rcNumber.String(),
		businessType,
		now,
	)
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("confirm registration: %w", err)
	}
	return identity, nil
}

func (s *PostgresIdentityStore) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*BusinessIdentity, error) {
	var (
		identity   BusinessIdentity
		businessID uuid.UUID
		ownerID    uuid.UUID
		rcNumber   string
	)
	err := row.Scan(
		&businessID,
		&ownerID,
		&identity.Name,
		&identity.Category,
		&identity.Industry,
		&identity.Address,
		&identity.EmployeeCount,
		&identity.MonthlyRevenue,
		&rcNumber,
		&identity.BusinessType,
		&identity.RegistrationConfirmed,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	identity.ID = id.BusinessID(businessID)
	identity.OwnerID = id.OwnerID(ownerID)
	identity.RCNumber = id.RCNumber(rcNumber)
	return &identity, nil
}

// PostgresEvidenceStore persists evidence records with a per-business
// version counter used for optimistic scoring commits.
type PostgresEvidenceStore struct {
	db *sql.DB
}

func NewPostgresEvidenceStore(db *sql.DB) *PostgresEvidenceStore {
	return &PostgresEvidenceStore{db: db}
}

func (s *PostgresEvidenceStore) Replace(ctx context.Context, record EvidenceRecord) (EvidenceRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("begin evidence tx: %w", err)
	}
	defer tx.Rollback()

	var existingRef string
	err = tx.QueryRowContext(ctx, `
		SELECT artifact_ref FROM business_evidence
		WHERE business_id = $1 AND channel = $2
		FOR UPDATE
	`, uuid.UUID(record.BusinessID), string(record.Channel)).Scan(&existingRef)
	switch {
	case err == nil:
		if existingRef == record.ArtifactRef {
			// Identical resubmission: keep stored record and version.
			stored, readErr := s.get(ctx, tx, record.BusinessID, record.Channel)
			if readErr != nil {
				return EvidenceRecord{}, readErr
			}
			if commitErr := tx.Commit(); commitErr != nil {
				return EvidenceRecord{}, fmt.Errorf("commit evidence tx: %w", commitErr)
			}
			return stored, nil
		}
	case errors.Is(err, sql.ErrNoRows):
		// First submission for this channel.
	default:
		return EvidenceRecord{}, fmt.Errorf("lock evidence row: %w", err)
	}

	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("marshal evidence metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO business_evidence (business_id, channel, artifact_ref, verified, metadata, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (business_id, channel) DO UPDATE SET
			artifact_ref = EXCLUDED.artifact_ref,
			verified     = EXCLUDED.verified,
			metadata     = EXCLUDED.metadata,
			submitted_at = EXCLUDED.submitted_at
	`, uuid.UUID(record.BusinessID), string(record.Channel), record.ArtifactRef,
		record.Verified, metadata, record.SubmittedAt)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("replace evidence: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE businesses SET evidence_version = evidence_version + 1 WHERE id = $1
	`, uuid.UUID(record.BusinessID))
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("bump evidence version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return EvidenceRecord{}, fmt.Errorf("commit evidence tx: %w", err)
	}
	return record, nil
}

func (s *PostgresEvidenceStore) get(ctx context.Context, tx *sql.Tx, businessID id.BusinessID, channel EvidenceChannel) (EvidenceRecord, error) {
	var (
		record   EvidenceRecord
		metadata []byte
	)
	err := tx.QueryRowContext(ctx, `
		SELECT artifact_ref, verified, metadata, submitted_at
		FROM business_evidence
		WHERE business_id = $1 AND channel = $2
	`, uuid.UUID(businessID), string(channel)).Scan(
		&record.ArtifactRef, &record.Verified, &metadata, &record.SubmittedAt,
	)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("read evidence record: %w", err)
	}
	record.BusinessID = businessID
	record.Channel = channel
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
			return EvidenceRecord{}, fmt.Errorf("unmarshal evidence metadata: %w", err)
		}
	}
	return record, nil
}

func (s *PostgresEvidenceStore) Snapshot(ctx context.Context, businessID id.BusinessID) (*EvidenceSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	snapshot := &EvidenceSnapshot{
		BusinessID: businessID,
		Records:    make(map[EvidenceChannel]EvidenceRecord),
		TakenAt:    time.Now(),
	}

	err = tx.QueryRowContext(ctx, `
		SELECT evidence_version FROM businesses WHERE id = $1
	`, uuid.UUID(businessID)).Scan(&snapshot.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read evidence version: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT channel, artifact_ref, verified, metadata, submitted_at
		FROM business_evidence
		WHERE business_id = $1
	`, uuid.UUID(businessID))
	if err != nil {
		return nil, fmt.Errorf("query evidence records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			record   EvidenceRecord
			channel  string
			metadata []byte
		)
		if err := rows.Scan(&channel, &record.ArtifactRef, &record.Verified, &metadata, &record.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan evidence record: %w", err)
		}
		record.BusinessID = businessID
		record.Channel = EvidenceChannel(channel)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal evidence metadata: %w", err)
			}
		}
		snapshot.Records[record.Channel] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snapshot, nil
}

func (s *PostgresEvidenceStore) Version(ctx context.Context, businessID id.BusinessID) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT evidence_version FROM businesses WHERE id = $1
	`, uuid.UUID(businessID)).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("read evidence version: %w", err)
	}
	return version, nil
}
