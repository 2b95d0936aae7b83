//go:build integration

package marketplace_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pulsemarket/internal/marketplace"
	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/testutil/containers"
)

func TestRedisSnapshotStore_SaveAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redis := containers.NewRedisContainer(t)
	t.Cleanup(func() {
		_ = redis.Client.Close()
		_ = redis.Container.Terminate(context.Background())
	})

	ctx := context.Background()
	store := marketplace.NewRedisSnapshotStore(redis.Client)

	listings := []marketplace.Listing{
		{
			BusinessID:  id.NewBusinessID(),
			Name:        "Lagos Textiles Ltd",
			Industry:    "manufacturing",
			PulseScore:  87,
			ProfitScore: 60,
			RiskLabel:   "medium",
			LastUpdated: time.Now().UTC().Truncate(time.Millisecond),
		},
		{
			BusinessID:  id.NewBusinessID(),
			Name:        "Abuja Agro Supplies",
			Industry:    "agriculture",
			PulseScore:  75,
			LastUpdated: time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	require.NoError(t, store.Save(ctx, "tok-1", listings, time.Minute))

	got, found, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	require.Equal(t, listings[0].BusinessID, got[0].BusinessID)
	require.Equal(t, 87, got[0].PulseScore)

	_, found, err = store.Get(ctx, "unknown-token")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisSnapshotStore_EntriesExpire(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redis := containers.NewRedisContainer(t)
	t.Cleanup(func() {
		_ = redis.Client.Close()
		_ = redis.Container.Terminate(context.Background())
	})

	ctx := context.Background()
	store := marketplace.NewRedisSnapshotStore(redis.Client)

	require.NoError(t, store.Save(ctx, "tok-short", []marketplace.Listing{{BusinessID: id.NewBusinessID()}}, 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	_, found, err := store.Get(ctx, "tok-short")
	require.NoError(t, err)
	require.False(t, found)
}
