package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

func TestMemoryStoreLatestPerCorpus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveLatest(ctx, intent.Run{ID: "a", Corpus: "faq"}, 0))
	require.NoError(t, store.SaveLatest(ctx, intent.Run{ID: "b", Corpus: "faq"}, 0))
	require.NoError(t, store.SaveLatest(ctx, intent.Run{ID: "c", Corpus: "civic"}, 0))

	run, ok, err := store.Latest(ctx, "faq")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", run.ID)

	_, ok, err = store.Latest(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveLatest(ctx, intent.Run{ID: "a", Corpus: "faq"}, time.Minute))
	_, ok, _ := store.Latest(ctx, "faq")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = store.Latest(ctx, "faq")
	require.False(t, ok)
}

func TestValkeyStoreKey(t *testing.T) {
	require.Equal(t, "intents:run:faq", NewValkeyStore(nil, "").runKey("faq"))
	require.Equal(t, "bot:run:faq", NewValkeyStore(nil, "bot").runKey("faq"))
}
