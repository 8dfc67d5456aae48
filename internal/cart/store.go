package cart

import (
	"context"
	"time"
)

// Line is one product-id/quantity pair in the local cart.
type Line struct {
	ProductID uint
	Quantity  int
}

// Store holds the anonymous shopper's cart in durable local storage.
// Quantities are always >= 1; an entry that would reach zero is removed
// instead. Every mutation rewrites the last-mutation timestamp, and the
// mapping and timestamp are persisted atomically.
type Store interface {
	// Add adjusts the quantity for productID by delta (any integer),
	// clamping the result to >= 0 and deleting the entry at zero.
	Add(ctx context.Context, productID uint, delta int) error

	// Clear empties the mapping and removes the timestamp.
	Clear(ctx context.Context) error

	Lines(ctx context.Context) ([]Line, error)

	// TotalItems is the sum of all quantities, used for badge counts.
	TotalItems(ctx context.Context) (int, error)

	// LastMutation reports the stored timestamp; ok is false when the
	// cart has never been touched (or was cleared).
	LastMutation(ctx context.Context) (time.Time, bool, error)
}
