package cart

import (
	"context"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

// ServerCart is the slice of the backend client the reconciler needs.
type ServerCart interface {
	AddCartLine(ctx context.Context, token string, productID uint, quantity int) error
}

// Reconciler merges locally-accumulated cart lines into the server-side
// cart after the shopper authenticates. The merge is additive and
// best-effort: one request per line, failures logged and skipped, the
// local store left alone.
type Reconciler struct {
	Store  Store
	Server ServerCart
}

// Sync runs on the anonymous-to-authenticated transition, and only then.
func (r *Reconciler) Sync(ctx context.Context, token string) error {
	l := logging.FromContext(ctx).With("component", "cart.reconciler")

	lines, err := r.Store.Lines(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := r.Server.AddCartLine(ctx, token, line.ProductID, line.Quantity); err != nil {
			l.Warn("cart_line_sync_failed", "product_id", line.ProductID, "error", err)
			continue
		}
		l.Debug("cart_line_synced", "product_id", line.ProductID, "quantity", line.Quantity)
	}
	return nil
}
