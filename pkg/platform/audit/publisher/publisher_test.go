package publisher

import (
	"context"
	"testing"
	"time"

	id "pulsemarket/pkg/domain"
	audit "pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/audit/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, pub *Publisher, businessID id.BusinessID, action audit.AuditEvent) {
	t.Helper()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		BusinessID: businessID,
		Action:     string(action),
	}))
}

func TestPublisherSyncAppendsInOrder(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	businessID := id.NewBusinessID()
	emit(t, pub, businessID, audit.EventProfileSubmitted)
	emit(t, pub, businessID, audit.EventEvidenceUploaded)
	emit(t, pub, businessID, audit.EventScoringCompleted)

	events, err := pub.List(context.Background(), businessID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, string(audit.EventProfileSubmitted), events[0].Action)
	assert.Equal(t, string(audit.EventEvidenceUploaded), events[1].Action)
	assert.Equal(t, string(audit.EventScoringCompleted), events[2].Action)
}

func TestPublisherListIsScopedToBusiness(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	first := id.NewBusinessID()
	second := id.NewBusinessID()
	emit(t, pub, first, audit.EventProfileSubmitted)
	emit(t, pub, second, audit.EventScoringCompleted)

	events, err := pub.List(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventProfileSubmitted), events[0].Action)
}

func TestPublisherTimestamps(t *testing.T) {
	t.Run("stamps events that carry no timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store)
		defer pub.Close()

		businessID := id.NewBusinessID()
		before := time.Now()
		emit(t, pub, businessID, audit.EventProfileSubmitted)
		after := time.Now()

		events, err := pub.List(context.Background(), businessID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Timestamp.Before(before))
		assert.False(t, events[0].Timestamp.After(after))
	})

	t.Run("keeps the request-pinned timestamp when present", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store)
		defer pub.Close()

		businessID := id.NewBusinessID()
		pinned := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			BusinessID: businessID,
			Action:     string(audit.EventScoringCompleted),
			Timestamp:  pinned,
		}))

		events, err := pub.List(context.Background(), businessID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, pinned, events[0].Timestamp)
	})
}

func TestPublisherDerivesCategoryFromAction(t *testing.T) {
	tests := []struct {
		action audit.AuditEvent
		want   audit.EventCategory
	}{
		{audit.EventScoringCompleted, audit.CategoryCompliance},
		{audit.EventDealFunded, audit.CategoryCompliance},
		{audit.EventAuthFailed, audit.CategorySecurity},
		{audit.EventListingViewed, audit.CategoryOperations},
		{"something_unclassified", audit.CategoryOperations},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			store := memory.NewInMemoryStore()
			pub := NewPublisher(store)
			defer pub.Close()

			businessID := id.NewBusinessID()
			emit(t, pub, businessID, tt.action)

			events, err := pub.List(context.Background(), businessID)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Category)
		})
	}
}

func TestPublisherAsyncDeliversThroughBuffer(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(16))

	businessID := id.NewBusinessID()
	for range 5 {
		emit(t, pub, businessID, audit.EventEvidenceUploaded)
	}

	// Close drains the buffer, so after it returns every event is stored.
	require.NoError(t, pub.Close())

	events, err := store.ListByBusiness(context.Background(), businessID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPublisherCloseIsIdempotent(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(4))
	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())
}

// blockingStore parks every Append until release is closed, which lets
// tests fill the async buffer deterministically.
type blockingStore struct {
	audit.Store
	release chan struct{}
}

func (s *blockingStore) Append(ctx context.Context, event audit.Event) error {
	<-s.release
	return s.Store.Append(ctx, event)
}

func TestPublisherAsyncBackpressure(t *testing.T) {
	inner := memory.NewInMemoryStore()
	store := &blockingStore{Store: inner, release: make(chan struct{})}
	pub := NewPublisher(store, WithAsyncBuffer(1))

	businessID := id.NewBusinessID()

	// First event is picked up by the drainer and parks in Append.
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		BusinessID: businessID,
		Action:     string(audit.EventListingViewed),
	}))

	// Give the drainer a moment to take it off the buffer.
	require.Eventually(t, func() bool {
		return pub.Emit(context.Background(), audit.Event{
			BusinessID: businessID,
			Action:     string(audit.EventListingViewed),
		}) == nil
	}, time.Second, 5*time.Millisecond, "second event should fit once the drainer picks up the first")

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		err := pub.Emit(context.Background(), audit.Event{
			BusinessID: businessID,
			Action:     string(audit.EventListingViewed),
		})
		assert.ErrorIs(t, err, ErrBufferFull)
	})

	t.Run("cancelled context wins over the drop path", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := pub.Emit(ctx, audit.Event{
			BusinessID: businessID,
			Action:     string(audit.EventListingViewed),
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	close(store.release)
	require.NoError(t, pub.Close())

	events, err := inner.ListByBusiness(context.Background(), businessID)
	require.NoError(t, err)
	assert.Len(t, events, 2, "only the events that fit the buffer are persisted")
}
