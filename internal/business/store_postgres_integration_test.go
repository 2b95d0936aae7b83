//go:build integration

package business_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pulsemarket/internal/business"
	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/testutil/containers"
)

type PostgresStoresSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	identities *business.PostgresIdentityStore
	evidence   *business.PostgresEvidenceStore
}

func TestPostgresStoresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoresSuite))
}

func (s *PostgresStoresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.identities = business.NewPostgresIdentityStore(s.postgres.DB)
	s.evidence = business.NewPostgresEvidenceStore(s.postgres.DB)
}

func (s *PostgresStoresSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"business_evidence", "businesses"))
}

func strptr(v string) *string   { return &v }
func intptr(v int) *int         { return &v }
func f64ptr(v float64) *float64 { return &v }

func (s *PostgresStoresSuite) TestUpsertMergesPartialSubmissions() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	ownerID := id.NewOwnerID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := s.identities.Upsert(ctx, businessID, ownerID, business.ProfileFields{
		Name:     strptr("Lagos Textiles Ltd"),
		Industry: strptr("manufacturing"),
	}, now)
	s.Require().NoError(err)
	s.Equal("Lagos Textiles Ltd", first.Name)
	s.Equal("manufacturing", first.Industry)

	// A later partial submission only touches the fields it carries.
	second, err := s.identities.Upsert(ctx, businessID, ownerID, business.ProfileFields{
		EmployeeCount:  intptr(14),
		MonthlyRevenue: f64ptr(250000),
	}, now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal("Lagos Textiles Ltd", second.Name)
	s.Equal(14, second.EmployeeCount)
	s.Equal(float64(250000), second.MonthlyRevenue)
}

func (s *PostgresStoresSuite) TestUpsertRejectsForeignOwner() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	now := time.Now().UTC()

	_, err := s.identities.Upsert(ctx, businessID, id.NewOwnerID(), business.ProfileFields{
		Name: strptr("Lagos Textiles Ltd"),
	}, now)
	s.Require().NoError(err)

	_, err = s.identities.Upsert(ctx, businessID, id.NewOwnerID(), business.ProfileFields{
		Name: strptr("Hijacked Name"),
	}, now)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoresSuite) TestUpsertRejectsSecondBusinessForOwner() {
	ctx := context.Background()
	ownerID := id.NewOwnerID()
	now := time.Now().UTC()

	first, err := s.identities.Upsert(ctx, id.NewBusinessID(), ownerID, business.ProfileFields{
		Name: strptr("Lagos Textiles Ltd"),
	}, now)
	s.Require().NoError(err)

	// The owner_id unique index keeps the profile one-per-owner even when
	// the client invents a fresh business ID.
	_, err = s.identities.Upsert(ctx, id.NewBusinessID(), ownerID, business.ProfileFields{
		Name: strptr("Second Venture"),
	}, now)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	existing, err := s.identities.GetByOwner(ctx, ownerID)
	s.Require().NoError(err)
	s.Equal(first.ID, existing.ID)
	s.Equal("Lagos Textiles Ltd", existing.Name)
}

func (s *PostgresStoresSuite) TestEvidenceReplaceIsIdempotent() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	ownerID := id.NewOwnerID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := s.identities.Upsert(ctx, businessID, ownerID, business.ProfileFields{
		Name: strptr("Lagos Textiles Ltd"),
	}, now)
	s.Require().NoError(err)

	record := business.EvidenceRecord{
		BusinessID:  businessID,
		Channel:     business.ChannelDocument,
		ArtifactRef: "s3://docs/cac-certificate.pdf",
		Verified:    true,
		SubmittedAt: now,
	}

	_, err = s.evidence.Replace(ctx, record)
	s.Require().NoError(err)

	version, err := s.evidence.Version(ctx, businessID)
	s.Require().NoError(err)
	s.Equal(int64(1), version)

	// Resubmitting the identical artifact must not bump the version.
	_, err = s.evidence.Replace(ctx, record)
	s.Require().NoError(err)

	version, err = s.evidence.Version(ctx, businessID)
	s.Require().NoError(err)
	s.Equal(int64(1), version)

	// A different artifact on the same channel does.
	record.ArtifactRef = "s3://docs/cac-certificate-v2.pdf"
	_, err = s.evidence.Replace(ctx, record)
	s.Require().NoError(err)

	version, err = s.evidence.Version(ctx, businessID)
	s.Require().NoError(err)
	s.Equal(int64(2), version)
}

func (s *PostgresStoresSuite) TestSnapshotCarriesAllChannels() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	ownerID := id.NewOwnerID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := s.identities.Upsert(ctx, businessID, ownerID, business.ProfileFields{
		Name: strptr("Lagos Textiles Ltd"),
	}, now)
	s.Require().NoError(err)

	for _, channel := range business.Channels {
		_, err := s.evidence.Replace(ctx, business.EvidenceRecord{
			BusinessID:  businessID,
			Channel:     channel,
			ArtifactRef: "ref-" + string(channel),
			Verified:    true,
			SubmittedAt: now,
		})
		s.Require().NoError(err)
	}

	snapshot, err := s.evidence.Snapshot(ctx, businessID)
	s.Require().NoError(err)
	s.Equal(int64(3), snapshot.Version)
	s.Len(snapshot.Records, 3)

	doc, ok := snapshot.Record(business.ChannelDocument)
	s.Require().True(ok)
	s.Equal("ref-document", doc.ArtifactRef)
	s.True(doc.Verified)
}
