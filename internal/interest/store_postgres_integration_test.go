//go:build integration

package interest_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pulsemarket/internal/interest"
	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *interest.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = interest.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "interest_edges"))
}

func (s *PostgresStoreSuite) newEdge() interest.Edge {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return interest.Edge{
		LenderID:   id.NewLenderID(),
		BusinessID: id.NewBusinessID(),
		Status:     interest.StatusViewed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *PostgresStoreSuite) TestCreateIsExactlyOnce() {
	ctx := context.Background()
	edge := s.newEdge()

	created, err := s.store.Create(ctx, edge)
	s.Require().NoError(err)
	s.True(created)

	created, err = s.store.Create(ctx, edge)
	s.Require().NoError(err)
	s.False(created)
}

func (s *PostgresStoreSuite) TestConcurrentCreatesYieldOneEdge() {
	ctx := context.Background()
	edge := s.newEdge()
	const goroutines = 20

	var wg sync.WaitGroup
	var createdCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.store.Create(ctx, edge)
			if err == nil && created {
				createdCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), createdCount.Load())
}

func (s *PostgresStoreSuite) TestUpdateStatusIsCompareAndSwap() {
	ctx := context.Background()
	edge := s.newEdge()

	_, err := s.store.Create(ctx, edge)
	s.Require().NoError(err)

	updated, err := s.store.UpdateStatus(ctx,
		edge.LenderID, edge.BusinessID,
		interest.StatusViewed, interest.StatusInterested, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(interest.StatusInterested, updated.Status)

	// A second caller still holding the old status loses the race.
	_, err = s.store.UpdateStatus(ctx,
		edge.LenderID, edge.BusinessID,
		interest.StatusViewed, interest.StatusNegotiating, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrVersionMismatch)

	current, err := s.store.Get(ctx, edge.LenderID, edge.BusinessID)
	s.Require().NoError(err)
	s.Equal(interest.StatusInterested, current.Status)
}

func (s *PostgresStoreSuite) TestUpdateStatusUnknownEdge() {
	ctx := context.Background()

	_, err := s.store.UpdateStatus(ctx,
		id.NewLenderID(), id.NewBusinessID(),
		interest.StatusViewed, interest.StatusInterested, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByLenderFiltersAndPaginates() {
	ctx := context.Background()
	lenderID := id.NewLenderID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		edge := interest.Edge{
			LenderID:   lenderID,
			BusinessID: id.NewBusinessID(),
			Status:     interest.StatusViewed,
			CreatedAt:  now.Add(time.Duration(i) * time.Second),
			UpdatedAt:  now.Add(time.Duration(i) * time.Second),
		}
		_, err := s.store.Create(ctx, edge)
		s.Require().NoError(err)
	}

	edges, total, err := s.store.ListByLender(ctx, lenderID, interest.ListFilter{Page: 1, PageSize: 3})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(edges, 3)

	// Most recently updated first.
	s.True(edges[0].UpdatedAt.After(edges[1].UpdatedAt))

	_, total, err = s.store.ListByLender(ctx, lenderID, interest.ListFilter{Status: interest.StatusViewed, Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Equal(5, total)
}

func (s *PostgresStoreSuite) TestCounts() {
	ctx := context.Background()
	lenderID := id.NewLenderID()
	now := time.Now().UTC()

	first := interest.Edge{LenderID: lenderID, BusinessID: id.NewBusinessID(), Status: interest.StatusViewed, CreatedAt: now, UpdatedAt: now}
	second := interest.Edge{LenderID: lenderID, BusinessID: id.NewBusinessID(), Status: interest.StatusViewed, CreatedAt: now, UpdatedAt: now}
	other := interest.Edge{LenderID: id.NewLenderID(), BusinessID: id.NewBusinessID(), Status: interest.StatusViewed, CreatedAt: now, UpdatedAt: now}

	for _, edge := range []interest.Edge{first, second, other} {
		_, err := s.store.Create(ctx, edge)
		s.Require().NoError(err)
	}

	_, err := s.store.UpdateStatus(ctx, second.LenderID, second.BusinessID,
		interest.StatusViewed, interest.StatusNegotiating, now)
	s.Require().NoError(err)

	byStatus, err := s.store.CountByStatusForLender(ctx, lenderID)
	s.Require().NoError(err)
	s.Equal(1, byStatus[interest.StatusViewed])
	s.Equal(1, byStatus[interest.StatusNegotiating])

	lenders, err := s.store.CountLenders(ctx)
	s.Require().NoError(err)
	s.Equal(2, lenders)
}
