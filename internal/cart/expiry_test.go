package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExpired(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"fresh", time.Minute, false},
		{"just inside", ExpiryWindow, false},
		{"just past", ExpiryWindow + time.Millisecond, true},
		{"long gone", 48 * time.Hour, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Expired(base, base.Add(tc.elapsed)))
		})
	}
}

func TestCheckExpiryClearsStaleCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	require.NoError(t, store.Add(ctx, 4, 2))

	expired, err := CheckExpiry(ctx, store, base.Add(6*time.Hour))
	require.NoError(t, err)
	require.True(t, expired)

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCheckExpiryKeepsFreshCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	require.NoError(t, store.Add(ctx, 4, 2))

	expired, err := CheckExpiry(ctx, store, base.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, expired)

	lines, err := store.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestCheckExpiryIgnoresEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	expired, err := CheckExpiry(ctx, store, time.Now())
	require.NoError(t, err)
	require.False(t, expired)
}
