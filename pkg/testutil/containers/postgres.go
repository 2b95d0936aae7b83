//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema holds the tables the stores expect. Kept here so integration
// tests run against the same shape a deployed database would have.
const schema = `
CREATE TABLE IF NOT EXISTS businesses (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	employee_count INT NOT NULL DEFAULT 0,
	monthly_revenue NUMERIC NOT NULL DEFAULT 0,
	rc_number TEXT NOT NULL DEFAULT '',
	business_type TEXT NOT NULL DEFAULT '',
	registration_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
	evidence_version BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS business_evidence (
	business_id UUID NOT NULL REFERENCES businesses (id),
	channel TEXT NOT NULL,
	artifact_ref TEXT NOT NULL,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	metadata JSONB,
	submitted_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (business_id, channel)
);

CREATE TABLE IF NOT EXISTS scores (
	business_id UUID PRIMARY KEY,
	pulse_score INT NOT NULL,
	profit_score INT NOT NULL DEFAULT 0,
	profit_computed BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	failure_reason TEXT NOT NULL DEFAULT '',
	breakdown JSONB NOT NULL,
	evidence_version BIGINT NOT NULL,
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS marketplace_listings (
	business_id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	industry TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	employee_count INT NOT NULL DEFAULT 0,
	pulse_score INT NOT NULL,
	profit_score INT NOT NULL DEFAULT 0,
	profit_computed BOOLEAN NOT NULL DEFAULT FALSE,
	risk_label TEXT NOT NULL DEFAULT '',
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS interest_edges (
	lender_id UUID NOT NULL,
	business_id UUID NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (lender_id, business_id)
);

CREATE TABLE IF NOT EXISTS outbox (
	id UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL DEFAULT '',
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	business_id UUID,
	lender_id UUID,
	subject TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	stage TEXT NOT NULL DEFAULT '',
	decision TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	client_ip TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	actor_id TEXT NOT NULL DEFAULT ''
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// schema already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pulsemarket_test"),
		tcpostgres.WithUsername("pulsemarket"),
		tcpostgres.WithPassword("pulsemarket"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
