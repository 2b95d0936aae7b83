package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsemarket/internal/interest"
	"pulsemarket/internal/interest/handler"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/testutil"
)

type stubService struct {
	recordedTarget interest.Status
	recordErr      error
	edges          []interest.Edge
	dashboard      *interest.Dashboard
}

func (s *stubService) RecordAction(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID, target interest.Status) (*interest.Edge, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	s.recordedTarget = target
	now := time.Now().UTC()
	return &interest.Edge{
		LenderID:   lenderID,
		BusinessID: businessID,
		Status:     target,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *stubService) ListInterests(ctx context.Context, lenderID id.LenderID, filter interest.ListFilter) ([]interest.Edge, int, error) {
	return s.edges, len(s.edges), nil
}

func (s *stubService) GetDashboard(ctx context.Context, lenderID id.LenderID) (*interest.Dashboard, error) {
	return s.dashboard, nil
}

func newRouter(service handler.Service) chi.Router {
	r := chi.NewRouter()
	handler.New(service, slog.Default()).Register(r)
	return r
}

func TestHandleRecordAction(t *testing.T) {
	lenderID := id.NewLenderID()
	businessID := id.NewBusinessID()

	t.Run("records a valid transition", func(t *testing.T) {
		service := &stubService{}
		router := newRouter(service)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/interests/"+businessID.String(),
			map[string]string{"status": "interested"})
		req = testutil.WithLender(req, lenderID.String())

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, interest.StatusInterested, service.recordedTarget)

		body := testutil.UnmarshalResponse[handler.EdgeResponse](t, rr)
		assert.Equal(t, "interested", body.Status)
		assert.Equal(t, businessID.String(), body.BusinessID)
	})

	t.Run("rejects viewed as a target", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/interests/"+businessID.String(),
			map[string]string{"status": "viewed"})
		req = testutil.WithLender(req, lenderID.String())

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/interests/"+businessID.String(),
			map[string]string{"status": "maybe-later"})
		req = testutil.WithLender(req, lenderID.String())

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("requires a body", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/interests/"+businessID.String(), "not json")
		req = testutil.WithLender(req, lenderID.String())

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("requires a lender identity", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/interests/"+businessID.String(),
			map[string]string{"status": "interested"})

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("maps a transition conflict to 409", func(t *testing.T) {
		service := &stubService{
			recordErr: dErrors.New(dErrors.CodeConflict, "cannot move interest from funded to interested"),
		}
		router := newRouter(service)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/interests/"+businessID.String(),
			map[string]string{"status": "interested"})
		req = testutil.WithLender(req, lenderID.String())

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func TestHandleListInterests(t *testing.T) {
	lenderID := id.NewLenderID()
	now := time.Now().UTC()
	service := &stubService{
		edges: []interest.Edge{
			{LenderID: lenderID, BusinessID: id.NewBusinessID(), Status: interest.StatusNegotiating, CreatedAt: now, UpdatedAt: now},
			{LenderID: lenderID, BusinessID: id.NewBusinessID(), Status: interest.StatusViewed, CreatedAt: now, UpdatedAt: now},
		},
	}
	router := newRouter(service)

	req := testutil.NewRequest(t, http.MethodGet, "/interests")
	req = testutil.WithLender(req, lenderID.String())

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)

	body := testutil.UnmarshalResponse[handler.ListResponse](t, rr)
	require.Len(t, body.Interests, 2)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "negotiating", body.Interests[0].Status)
}

func TestHandleDashboard(t *testing.T) {
	lenderID := id.NewLenderID()
	service := &stubService{
		dashboard: &interest.Dashboard{
			PortfolioCounts: map[interest.Status]int{
				interest.StatusViewed:      4,
				interest.StatusNegotiating: 1,
			},
			TotalListings: 12,
		},
	}
	router := newRouter(service)

	req := testutil.NewRequest(t, http.MethodGet, "/lenders/dashboard")
	req = testutil.WithLender(req, lenderID.String())

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)

	body := testutil.UnmarshalResponse[handler.DashboardResponse](t, rr)
	assert.Equal(t, 12, body.TotalListings)
	assert.Equal(t, 4, body.PortfolioCounts["viewed"])
}
