package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeServerCart struct {
	added  map[uint]int
	failOn uint
}

func (f *fakeServerCart) AddCartLine(_ context.Context, _ string, productID uint, quantity int) error {
	if productID == f.failOn {
		return errors.New("boom")
	}
	if f.added == nil {
		f.added = make(map[uint]int)
	}
	f.added[productID] += quantity
	return nil
}

func TestSyncPushesEveryLine(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Add(ctx, 1, 2))
	require.NoError(t, store.Add(ctx, 2, 1))

	server := &fakeServerCart{}
	r := &Reconciler{Store: store, Server: server}
	require.NoError(t, r.Sync(ctx, "tok"))

	require.Equal(t, map[uint]int{1: 2, 2: 1}, server.added)
}

func TestSyncContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Add(ctx, 1, 2))
	require.NoError(t, store.Add(ctx, 2, 1))
	require.NoError(t, store.Add(ctx, 3, 4))

	server := &fakeServerCart{failOn: 2}
	r := &Reconciler{Store: store, Server: server}
	require.NoError(t, r.Sync(ctx, "tok"))

	require.Equal(t, map[uint]int{1: 2, 3: 4}, server.added)

	// The local store is display source of truth and stays put.
	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 3)
}
