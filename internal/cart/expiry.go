package cart

import (
	"context"
	"time"
)

// ExpiryWindow is how long an untouched cart survives between sessions.
const ExpiryWindow = 5 * time.Hour

// Expired reports whether a cart last touched at lastMutation has
// outlived the expiry window at now.
func Expired(lastMutation, now time.Time) bool {
	return now.Sub(lastMutation) > ExpiryWindow
}

// CheckExpiry is evaluated once at application start. An expired cart is
// cleared and the caller told so it can surface exactly one expiry
// notice. A running session never re-evaluates this.
func CheckExpiry(ctx context.Context, store Store, now time.Time) (bool, error) {
	last, ok, err := store.LastMutation(ctx)
	if err != nil || !ok {
		return false, err
	}
	if !Expired(last, now) {
		return false, nil
	}
	if err := store.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}
