//go:build integration

package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pulsemarket/internal/scoring"
	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *scoring.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = scoring.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "scores"))
}

func (s *PostgresStoreSuite) TestSaveAndGetRoundTrip() {
	ctx := context.Background()
	record := &scoring.ScoreRecord{
		BusinessID:     id.NewBusinessID(),
		PulseScore:     87,
		ProfitScore:    60,
		ProfitComputed: true,
		Status:         scoring.StatusVerified,
		Breakdown: map[string]int{
			"document":            25,
			"video":               22,
			"bank_match":          20,
			"profile_consistency": 20,
		},
		EvidenceVersion: 3,
		LastUpdated:     time.Now().UTC().Truncate(time.Millisecond),
	}

	s.Require().NoError(s.store.Save(ctx, record))

	got, err := s.store.Get(ctx, record.BusinessID)
	s.Require().NoError(err)
	s.Equal(record.PulseScore, got.PulseScore)
	s.Equal(record.ProfitScore, got.ProfitScore)
	s.True(got.ProfitComputed)
	s.Equal(scoring.StatusVerified, got.Status)
	s.Equal(record.Breakdown, got.Breakdown)
	s.Equal(int64(3), got.EvidenceVersion)
}

func (s *PostgresStoreSuite) TestSaveOverwritesPriorRun() {
	ctx := context.Background()
	businessID := id.NewBusinessID()

	first := &scoring.ScoreRecord{
		BusinessID:      businessID,
		PulseScore:      45,
		Status:          scoring.StatusFailed,
		FailureReason:   "video,bank_match",
		Breakdown:       map[string]int{"document": 25, "video": 0, "bank_match": 0, "profile_consistency": 20},
		EvidenceVersion: 2,
		LastUpdated:     time.Now().UTC(),
	}
	s.Require().NoError(s.store.Save(ctx, first))

	second := &scoring.ScoreRecord{
		BusinessID:      businessID,
		PulseScore:      87,
		ProfitScore:     72,
		ProfitComputed:  true,
		Status:          scoring.StatusVerified,
		Breakdown:       map[string]int{"document": 25, "video": 22, "bank_match": 20, "profile_consistency": 20},
		EvidenceVersion: 4,
		LastUpdated:     time.Now().UTC(),
	}
	s.Require().NoError(s.store.Save(ctx, second))

	got, err := s.store.Get(ctx, businessID)
	s.Require().NoError(err)
	s.Equal(87, got.PulseScore)
	s.Equal(scoring.StatusVerified, got.Status)
	s.Empty(got.FailureReason)
	s.Equal(int64(4), got.EvidenceVersion)
}

func (s *PostgresStoreSuite) TestCountByStatus() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i, status := range []scoring.ScoreStatus{scoring.StatusVerified, scoring.StatusVerified, scoring.StatusFailed} {
		record := &scoring.ScoreRecord{
			BusinessID:      id.NewBusinessID(),
			PulseScore:      60 + i,
			Status:          status,
			Breakdown:       map[string]int{"document": 25},
			EvidenceVersion: 1,
			LastUpdated:     now,
		}
		s.Require().NoError(s.store.Save(ctx, record))
	}

	counts, err := s.store.CountByStatus(ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[scoring.StatusVerified])
	s.Equal(1, counts[scoring.StatusFailed])
}
