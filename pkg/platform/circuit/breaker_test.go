package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("snapshot-cache")

	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.Equal(t, "snapshot-cache", b.Name())
}

func TestBreakerOpensOnConsecutiveFailures(t *testing.T) {
	b := New("audit-stream", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		require.False(t, useFallback, "failure %d must not trip the breaker", i+1)
		require.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerReportsOpenedOnlyOnTransition(t *testing.T) {
	b := New("audit-stream", WithFailureThreshold(1))

	_, change := b.RecordFailure()
	require.True(t, change.Opened)

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreakerClosesAfterSuccessStreak(t *testing.T) {
	b := New("audit-stream", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerStreaksDoNotSurviveInterruptions(t *testing.T) {
	t.Run("success clears the failure streak", func(t *testing.T) {
		b := New("audit-stream", WithFailureThreshold(2))

		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		assert.False(t, b.IsOpen())

		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("failure clears the success streak", func(t *testing.T) {
		b := New("audit-stream", WithFailureThreshold(1), WithSuccessThreshold(2))

		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()

		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestBreakerReset(t *testing.T) {
	b := New("audit-stream", WithFailureThreshold(1))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}
