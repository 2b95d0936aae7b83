package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/requestcontext"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestMiddleware(limits Limits, opts ...Option) *Middleware {
	limiter := NewLimiter(nil, limits, slog.Default(), nil)
	return NewMiddleware(limiter, slog.Default(), opts...)
}

func TestMiddleware_BlocksAfterLimit(t *testing.T) {
	mw := newTestMiddleware(Limits{Read: 10, Write: 2, Window: time.Minute})
	handler := mw.Limit(ClassWrite)(okHandler())

	ownerID := id.NewOwnerID()
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/businesses/x/score", nil)
		req = req.WithContext(requestcontext.WithOwnerID(req.Context(), ownerID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := do()
	require.Equal(t, http.StatusOK, second.Code)

	third := do()
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "rate_limit_exceeded")
}

func TestMiddleware_KeysCallersSeparately(t *testing.T) {
	mw := newTestMiddleware(Limits{Read: 10, Write: 1, Window: time.Minute})
	handler := mw.Limit(ClassWrite)(okHandler())

	do := func(ownerID id.OwnerID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/businesses/x/score", nil)
		req = req.WithContext(requestcontext.WithOwnerID(req.Context(), ownerID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := id.NewOwnerID()
	require.Equal(t, http.StatusOK, do(first).Code)
	require.Equal(t, http.StatusTooManyRequests, do(first).Code)

	// A different caller still has a full budget.
	assert.Equal(t, http.StatusOK, do(id.NewOwnerID()).Code)
}

func TestMiddleware_AnonymousCallersKeyedByIP(t *testing.T) {
	mw := newTestMiddleware(Limits{Read: 1, Write: 1, Window: time.Minute})
	handler := mw.Limit(ClassRead)(okHandler())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/marketplace/listings", nil)
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "test-agent"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestMiddleware_DisabledPassesEverything(t *testing.T) {
	mw := newTestMiddleware(Limits{Read: 1, Write: 1, Window: time.Minute}, WithDisabled(true))
	handler := mw.Limit(ClassWrite)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/businesses/x/score", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

type failingBucketStore struct{}

func (failingBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	return nil, errors.New("store down")
}

func (failingBucketStore) Reset(ctx context.Context, key string) error {
	return errors.New("store down")
}

func TestMiddleware_FallsBackWhenPrimaryStoreFails(t *testing.T) {
	limiter := NewLimiter(failingBucketStore{}, Limits{Read: 10, Write: 2, Window: time.Minute}, slog.Default(), nil)
	mw := NewMiddleware(limiter, slog.Default())
	handler := mw.Limit(ClassWrite)(okHandler())

	ownerID := id.NewOwnerID()
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/businesses/x/score", nil)
		req = req.WithContext(requestcontext.WithOwnerID(req.Context(), ownerID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Enough requests to trip the breaker; the fallback keeps enforcing.
	var limited bool
	for i := 0; i < 12; i++ {
		if do().Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited, "fallback limiter should still enforce the budget")
}

func TestLimiter_DegradedModeReported(t *testing.T) {
	limiter := NewLimiter(failingBucketStore{}, Limits{Read: 10, Write: 10, Window: time.Minute}, slog.Default(), nil)

	ctx := context.Background()
	var degraded bool
	for i := 0; i < 8; i++ {
		_, d, err := limiter.Check(ctx, "owner:x", ClassWrite)
		require.NoError(t, err)
		if d {
			degraded = true
		}
	}
	assert.True(t, degraded, "breaker should open after repeated store failures")
}
