//go:build integration

package accounts_integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/accounts-bot/integration_tests/testutils"
	"github.com/Black-And-White-Club/accounts-bot/internal/kvcache"
)

func setupCache(t *testing.T) (*kvcache.JetStreamStore, *testutils.TestEnvironment) {
	t.Helper()
	env := testutils.GetOrCreateTestEnv(t)
	bucket := kvcache.BucketConfig{Name: env.Config.NATS.CacheBucket, MaxAge: time.Hour}
	require.NoError(t, env.DeleteKeyValue(env.Ctx, bucket.Name))

	store, err := kvcache.NewJetStreamStore(env.Ctx, env.JetStream, bucket)
	require.NoError(t, err)
	return store, env
}

type repState struct {
	Given int `json:"given"`
}

func TestJetStreamStoreCompareAndSwap(t *testing.T) {
	store, env := setupCache(t)
	ctx := env.Ctx

	rev, err := store.Create(ctx, "user:1:rep", repState{Given: 1}, time.Hour)
	require.NoError(t, err)

	_, err = store.Create(ctx, "user:1:rep", repState{Given: 1}, time.Hour)
	require.ErrorIs(t, err, kvcache.ErrConflict)

	next, err := store.Update(ctx, "user:1:rep", repState{Given: 2}, time.Hour, rev)
	require.NoError(t, err)
	assert.Greater(t, next, rev)

	_, err = store.Update(ctx, "user:1:rep", repState{Given: 3}, time.Hour, rev)
	require.ErrorIs(t, err, kvcache.ErrConflict)

	var got repState
	found, err := store.Get(ctx, "user:1:rep", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Given)
}

func TestJetStreamStoreExpiry(t *testing.T) {
	store, env := setupCache(t)
	ctx := env.Ctx

	require.NoError(t, store.Upsert(ctx, "user:1:daily", 4, 50*time.Millisecond))

	exists, err := store.Exists(ctx, "user:1:daily")
	require.NoError(t, err)
	assert.True(t, exists)

	require.Eventually(t, func() bool {
		entry, err := store.GetEntry(ctx, "user:1:daily")
		return err == nil && !entry.Present && entry.Revision > 0
	}, 2*time.Second, 25*time.Millisecond)
}
