package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/audit"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

// Action names a staff transition on one order.
type Action string

const (
	ActionClaim          Action = "claim"
	ActionUnclaim        Action = "unclaim"
	ActionRequestPayment Action = "request-payment"
	ActionMarkPaid       Action = "mark-paid"
	ActionDeliver        Action = "deliver"
)

var ErrOrderNotFound = errors.New("order not found")

// Confirmer guards undo-costly actions with an interactive prompt. A
// declined prompt means no request is sent at all.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Notifier surfaces transient user-visible messages.
type Notifier interface {
	Flash(message string)
	Alert(message string)
}

// StaffBackend is the slice of the API client the controller drives.
type StaffBackend interface {
	Orders(ctx context.Context, token string) ([]api.Order, error)
	ClaimOrder(ctx context.Context, token string, id uint) error
	UnclaimOrder(ctx context.Context, token string, id uint) error
	RequestPayment(ctx context.Context, token string, id uint, phone string) error
	MarkPaid(ctx context.Context, token string, id uint) error
	DeliverOrder(ctx context.Context, token string, id uint) error
}

// Controller runs the staff side of an order's life: claim, unclaim,
// payment request, cash mark-paid and delivery. Preconditions are UI
// affordance only; the backend is the source of truth and may reject
// any transition. After every acknowledged action the whole order list
// is re-fetched, never hand-patched.
type Controller struct {
	backend StaffBackend
	confirm Confirmer
	notify  Notifier
	audit   audit.Publisher
	token   string
	staffID uint

	mu    sync.Mutex
	cache []api.Order
}

func NewController(backend StaffBackend, confirm Confirmer, notify Notifier, auditor audit.Publisher, token string, staffID uint) *Controller {
	if auditor == nil {
		auditor = audit.LogPublisher{}
	}
	return &Controller{
		backend: backend,
		confirm: confirm,
		notify:  notify,
		audit:   auditor,
		token:   token,
		staffID: staffID,
	}
}

// Refresh replaces the cached order list wholesale.
func (c *Controller) Refresh(ctx context.Context) error {
	fetched, err := c.backend.Orders(ctx, c.token)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache = fetched
	c.mu.Unlock()
	return nil
}

// Orders returns a copy of the cached list.
func (c *Controller) Orders() []api.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Order, len(c.cache))
	copy(out, c.cache)
	return out
}

// Available lists unclaimed, unarchived orders any staff member may take.
func (c *Controller) Available() []api.Order {
	return c.filter(func(o *api.Order) bool { return !o.Claimed() && !o.IsArchived })
}

// Mine lists claimed, unarchived orders.
func (c *Controller) Mine() []api.Order {
	return c.filter(func(o *api.Order) bool { return o.Claimed() && !o.IsArchived })
}

func (c *Controller) filter(keep func(*api.Order) bool) []api.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []api.Order
	for i := range c.cache {
		if keep(&c.cache[i]) {
			out = append(out, c.cache[i])
		}
	}
	return out
}

func (c *Controller) Get(id uint) (api.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cache {
		if c.cache[i].ID == id {
			return c.cache[i], true
		}
	}
	return api.Order{}, false
}

// AvailableActions derives which buttons an order gets. Delivered is
// terminal. Unclaimed orders offer only claim. A claimed unpaid order
// offers the full set, including deliver: whether delivery may precede
// payment is the backend's call, not blocked here.
func AvailableActions(o *api.Order) []Action {
	if o.IsArchived || o.Delivery == api.DeliveryDelivered {
		return nil
	}
	if !o.Claimed() {
		return []Action{ActionClaim}
	}
	if o.Payment != api.PaymentComplete {
		return []Action{ActionUnclaim, ActionRequestPayment, ActionMarkPaid, ActionDeliver}
	}
	return []Action{ActionDeliver}
}

// Allows reports whether the order currently offers the action.
func Allows(o *api.Order, action Action) bool {
	for _, a := range AvailableActions(o) {
		if a == action {
			return true
		}
	}
	return false
}

func (c *Controller) Claim(ctx context.Context, id uint) error {
	return c.run(ctx, id, ActionClaim,
		func(ctx context.Context) error { return c.backend.ClaimOrder(ctx, c.token, id) },
		"Order claimed successfully!", "Failed to claim order")
}

func (c *Controller) Unclaim(ctx context.Context, id uint) error {
	if !c.confirm.Confirm("Are you sure you want to unclaim this order?") {
		return nil
	}
	return c.run(ctx, id, ActionUnclaim,
		func(ctx context.Context) error { return c.backend.UnclaimOrder(ctx, c.token, id) },
		"Order unclaimed successfully", "Failed to unclaim order")
}

// RequestPayment triggers an STK push to the given phone. Local state is
// not changed by this call; a later poll observes the payment outcome.
func (c *Controller) RequestPayment(ctx context.Context, id uint, phone string) error {
	return c.run(ctx, id, ActionRequestPayment,
		func(ctx context.Context) error { return c.backend.RequestPayment(ctx, c.token, id, phone) },
		"Payment request sent successfully!", "Failed to send payment request")
}

func (c *Controller) MarkPaid(ctx context.Context, id uint) error {
	if !c.confirm.Confirm("Mark this order as paid (Cash payment)?") {
		return nil
	}
	return c.run(ctx, id, ActionMarkPaid,
		func(ctx context.Context) error { return c.backend.MarkPaid(ctx, c.token, id) },
		"Order marked as paid!", "Failed to mark as paid")
}

func (c *Controller) Deliver(ctx context.Context, id uint) error {
	if !c.confirm.Confirm("Confirm that this order has been delivered to the customer?") {
		return nil
	}
	return c.run(ctx, id, ActionDeliver,
		func(ctx context.Context) error { return c.backend.DeliverOrder(ctx, c.token, id) },
		"Order marked as delivered!", "Failed to mark as delivered")
}

// run sends one guarded transition: server acknowledgment first, then a
// full re-fetch, then the audit event. A rejected or failed transition
// leaves the cache untouched and surfaces a message; no retry.
func (c *Controller) run(ctx context.Context, id uint, action Action, call func(context.Context) error, success, fallback string) error {
	l := logging.FromContext(ctx).With("controller", "orders.lifecycle", "action", string(action), "order_id", id)

	order, _ := c.Get(id)

	if err := call(ctx); err != nil {
		l.Warn("transition_rejected", "error", err)
		c.notify.Alert(userMessage(err, fallback))
		return err
	}

	c.notify.Flash(success)

	if err := c.Refresh(ctx); err != nil {
		l.Warn("refresh_failed", "error", err)
	}

	event := audit.Event{
		Action:  string(action),
		OrderID: order.OrderID,
		StaffID: c.staffID,
		At:      time.Now().UTC(),
	}
	if err := c.audit.Publish(ctx, event); err != nil {
		l.Warn("audit_publish_failed", "error", err)
	}

	l.Info("transition_applied")
	return nil
}

// userMessage picks the server-supplied text for rejected operations and
// a generic fallback for transport failures.
func userMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
