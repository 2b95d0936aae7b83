package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRC(t *testing.T, s string) id.RCNumber {
	t.Helper()
	rc, err := id.ParseRCNumber(s)
	require.NoError(t, err)
	return rc
}

func TestStaticProvider_SeededCompany(t *testing.T) {
	provider := NewStaticProvider()
	rc := mustRC(t, "RC445566")
	provider.Seed(&Company{RCNumber: rc, Name: "Ada Textiles Ltd", BusinessType: "limited_company"})

	company, err := provider.FindCompany(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, "Ada Textiles Ltd", company.Name)
}

func TestStaticProvider_RCPrefixResolves(t *testing.T) {
	provider := NewStaticProvider()

	company, err := provider.FindCompany(context.Background(), mustRC(t, "RC778899"))
	require.NoError(t, err)
	assert.Equal(t, "limited_company", company.BusinessType)
}

func TestStaticProvider_UnknownNumberNotFound(t *testing.T) {
	provider := NewStaticProvider()

	_, err := provider.FindCompany(context.Background(), mustRC(t, "BN112233"))
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestHTTPClient_DecodesCompany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/RC123456", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rc_number": "RC123456",
			"name": "Ada Textiles Ltd",
			"business_type": "limited_company",
			"registered_at": "2019-04-02T00:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	company, err := client.FindCompany(context.Background(), mustRC(t, "RC123456"))
	require.NoError(t, err)
	assert.Equal(t, "Ada Textiles Ltd", company.Name)
	assert.Equal(t, 2019, company.RegisteredAt.Year())
}

func TestHTTPClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.FindCompany(context.Background(), mustRC(t, "RC000000"))
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestHTTPClient_UpstreamErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.FindCompany(context.Background(), mustRC(t, "RC123456"))
	require.Error(t, err)
	assert.True(t, dErrors.Retryable(err))
}

type countingProvider struct {
	inner Provider
	calls int
}

func (p *countingProvider) FindCompany(ctx context.Context, rc id.RCNumber) (*Company, error) {
	p.calls++
	return p.inner.FindCompany(ctx, rc)
}

func TestCachedProvider_MemoizesWithinTTL(t *testing.T) {
	counting := &countingProvider{inner: NewStaticProvider()}
	cached := NewCachedProvider(counting, time.Minute)
	rc := mustRC(t, "RC123456")

	_, err := cached.FindCompany(context.Background(), rc)
	require.NoError(t, err)
	_, err = cached.FindCompany(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
}

func TestCachedProvider_DoesNotCacheNotFound(t *testing.T) {
	counting := &countingProvider{inner: NewStaticProvider()}
	cached := NewCachedProvider(counting, time.Minute)
	rc := mustRC(t, "BN111111")

	_, err := cached.FindCompany(context.Background(), rc)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = cached.FindCompany(context.Background(), rc)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	assert.Equal(t, 2, counting.calls)
}
