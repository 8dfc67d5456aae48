package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/localdb"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := localdb.OpenMemory()
	require.NoError(t, err)
	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

func TestAddAccumulatesPerProduct(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, 7, 1))
	require.NoError(t, store.Add(ctx, 7, 1))
	require.NoError(t, store.Add(ctx, 9, 3))

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 7, Quantity: 2}, {ProductID: 9, Quantity: 3}}, lines)

	total, err := store.TotalItems(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, 7, 2))
	require.NoError(t, store.Add(ctx, 7, -1))

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 7, Quantity: 1}}, lines)

	require.NoError(t, store.Add(ctx, 7, -1))

	lines, err = store.Lines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestQuantityNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, 3, 1))
	require.NoError(t, store.Add(ctx, 3, -5))

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)

	require.NoError(t, store.Add(ctx, 3, -1))
	lines, err = store.Lines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestEveryMutationAdvancesTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	_, ok, err := store.LastMutation(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Add(ctx, 1, 1))
	last, ok, err := store.LastMutation(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, base.UnixMilli(), last.UnixMilli())

	now = base.Add(42 * time.Minute)
	require.NoError(t, store.Add(ctx, 1, -1))
	last, _, err = store.LastMutation(ctx)
	require.NoError(t, err)
	require.Equal(t, now.UnixMilli(), last.UnixMilli())
}

func TestClearDropsLinesAndTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, 1, 2))
	require.NoError(t, store.Add(ctx, 2, 1))
	require.NoError(t, store.Clear(ctx))

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)

	total, err := store.TotalItems(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	_, ok, err := store.LastMutation(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
