package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adminpkg "pulsemarket/internal/admin"
	adminhandler "pulsemarket/internal/admin/handler"
	"pulsemarket/internal/business"
	businessadapters "pulsemarket/internal/business/adapters"
	businesshandler "pulsemarket/internal/business/handler"
	"pulsemarket/internal/interest"
	interesthandler "pulsemarket/internal/interest/handler"
	"pulsemarket/internal/jwt_token"
	"pulsemarket/internal/marketplace"
	marketplacehandler "pulsemarket/internal/marketplace/handler"
	"pulsemarket/internal/registry"
	"pulsemarket/internal/scoring"
	scoringadapters "pulsemarket/internal/scoring/adapters"
	scoringhandler "pulsemarket/internal/scoring/handler"
	auditpublisher "pulsemarket/pkg/platform/audit/publisher"
	auditmemory "pulsemarket/pkg/platform/audit/store/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminToken = "test-admin-token"

type testStack struct {
	server *httptest.Server
	jwt    *jwttoken.JWTService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	logger := slog.Default()

	auditStore := auditmemory.NewInMemoryStore()
	auditor := auditpublisher.NewPublisher(auditStore, auditpublisher.WithLogger(logger))
	t.Cleanup(func() { _ = auditor.Close() })

	identities := business.NewInMemoryIdentityStore()
	evidence := business.NewInMemoryEvidenceStore()
	scoreStore := scoring.NewInMemoryStore()

	scoringService := scoring.NewService(scoring.ServiceConfig{
		Identities: identities,
		Evidence:   evidence,
		Documents:  scoringadapters.LocalDocumentVerifier{},
		Videos:     scoringadapters.LocalVideoVerifier{},
		Bank:       scoringadapters.LocalBankAggregator{},
		Store:      scoreStore,
		Auditor:    auditor,
		Logger:     logger,
	})

	businessService := business.NewService(
		identities,
		evidence,
		businessadapters.NewRegistryAdapter(registry.NewStaticProvider()),
		scoring.NewSummaryAdapter(scoreStore),
		auditor,
		logger,
		nil,
	)

	listings := marketplace.NewInMemoryListingStore()
	interestService := interest.NewService(interest.NewInMemoryStore(), nil, auditor, logger, nil)
	marketplaceService := marketplace.NewService(
		listings, marketplace.NewInMemorySnapshotStore(), interestService,
		auditor, logger, nil, time.Minute,
	)
	scoringService.Subscribe(marketplace.NewIndexUpdater(listings, auditor, logger, nil))

	adminService := adminpkg.NewService(
		businessService, scoringService, marketplaceService, interestService,
		auditStore, auditor, logger,
	)

	jwtService := jwttoken.NewJWTService("test-signing-key", "pulsemarket", "pulsemarket-api")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Logger:         logger,
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		AdminTokenHash: string(hash),
		Business:       businesshandler.New(businessService, logger),
		Scoring:        scoringhandler.New(scoringService, logger),
		Marketplace:    marketplacehandler.New(marketplaceService, logger),
		Interest:       interesthandler.New(interestService, logger),
		Admin:          adminhandler.New(adminService, logger),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testStack{server: server, jwt: jwtService}
}

func (s *testStack) token(t *testing.T, subject uuid.UUID, role string) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(subject, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testStack) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_HealthAndMetricsAreOpen(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(stack.server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AuthBoundaries(t *testing.T) {
	stack := newTestStack(t)
	lenderToken := stack.token(t, uuid.New(), "lender")

	resp := stack.do(t, http.MethodGet, "/marketplace/listings", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Lender tokens must not open SME endpoints.
	resp = stack.do(t, http.MethodPost, "/businesses/profile", lenderToken, map[string]any{"name": "x"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = stack.do(t, http.MethodGet, "/admin/analytics", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_FullVerificationAndMarketplaceFlow(t *testing.T) {
	stack := newTestStack(t)
	owner := uuid.New()
	lender := uuid.New()
	smeToken := stack.token(t, owner, "sme")
	lenderToken := stack.token(t, lender, "lender")

	// SME submits a profile.
	profile := decode[map[string]any](t, stack.do(t, http.MethodPost, "/businesses/profile", smeToken, map[string]any{
		"name":           "Lagos Textiles Ltd",
		"industry":       "textiles",
		"address":        "12 Broad Street, Lagos",
		"employee_count": 14,
	}))
	businessID := profile["business_id"].(string)
	require.NotEmpty(t, businessID)

	// Registry confirmation and all three evidence channels.
	resp := stack.do(t, http.MethodPost, "/businesses/"+businessID+"/business-type", smeToken, map[string]any{
		"rc_number": "RC123456",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for channel, ref := range map[string]string{
		"document": "s3://docs/cac.pdf",
		"video":    "s3://videos/tour.mp4",
		"bank":     "Lagos Textiles Ltd:60",
	} {
		resp := stack.do(t, http.MethodPost, "/businesses/"+businessID+"/evidence", smeToken, map[string]any{
			"channel":      channel,
			"artifact_ref": ref,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, channel)
	}

	// Scoring verifies the business and publishes the listing.
	score := decode[map[string]any](t, stack.do(t, http.MethodPost, "/businesses/"+businessID+"/score", smeToken, nil))
	assert.Equal(t, float64(87), score["pulse_score"])
	assert.Equal(t, "verified", score["status"])
	assert.Equal(t, float64(60), score["profit_score"])

	// The SME dashboard reflects the committed score.
	dashboard := decode[map[string]any](t, stack.do(t, http.MethodGet, "/businesses/"+businessID+"/dashboard", smeToken, nil))
	require.NotNil(t, dashboard["score"])

	// The lender finds the business in the marketplace.
	page := decode[map[string]any](t, stack.do(t, http.MethodGet, "/marketplace/listings", lenderToken, nil))
	listings := page["listings"].([]any)
	require.Len(t, listings, 1)
	assert.Equal(t, "Lagos Textiles Ltd", listings[0].(map[string]any)["name"])

	// Browsing recorded the view, so the lender can act on it.
	edge := decode[map[string]any](t, stack.do(t, http.MethodPost, "/interests/"+businessID, lenderToken, map[string]any{
		"status": "interested",
	}))
	assert.Equal(t, "interested", edge["status"])

	// Regressions are rejected with a conflict.
	resp = stack.do(t, http.MethodPost, "/interests/"+businessID, lenderToken, map[string]any{
		"status": "interested",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Admin sees the platform totals.
	req, err := http.NewRequest(http.MethodGet, stack.server.URL+"/admin/analytics", nil)
	require.NoError(t, err)
	req.Header.Set("X-Admin-Token", adminToken)
	adminResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	overview := decode[map[string]any](t, adminResp)
	assert.Equal(t, float64(1), overview["businesses"])
	assert.Equal(t, float64(1), overview["verified_businesses"])
	assert.Equal(t, float64(1), overview["listings"])
	assert.Equal(t, float64(1), overview["lenders"])
}

func TestRouter_SnapshotPaginationOverHTTP(t *testing.T) {
	stack := newTestStack(t)
	lenderToken := stack.token(t, uuid.New(), "lender")

	page := decode[map[string]any](t, stack.do(t, http.MethodGet,
		fmt.Sprintf("/marketplace/listings?page=%d&page_size=%d", 1, 2), lenderToken, nil))
	assert.Equal(t, float64(0), page["total"])
	assert.NotEmpty(t, page["snapshot_token"])
}
