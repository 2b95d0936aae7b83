package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChain(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := Wrap(base, CodeExternal, "bank aggregator call failed")

	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, base))
	assert.True(t, HasCode(wrapped, CodeExternal))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("scoring run: %w", New(CodeConflict, "edge already advanced"))
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
}

func TestCodeOfUncodedError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestRetryable(t *testing.T) {
	retryable := []Code{CodeExternal, CodeTimeout, CodeUnavailable, CodeInconsistency}
	for _, code := range retryable {
		assert.True(t, Retryable(New(code, "x")), "code %s should be retryable", code)
	}

	terminal := []Code{CodeValidation, CodeNotFound, CodeConflict, CodeInternal}
	for _, code := range terminal {
		assert.False(t, Retryable(New(code, "x")), "code %s should be terminal", code)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(CodeExternal))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
}
