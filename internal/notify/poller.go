package notify

import (
	"context"
	"strings"
	"time"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

const DefaultInterval = 10 * time.Second

// Backend is the slice of the API client the poller needs.
type Backend interface {
	Notifications(ctx context.Context, token string) ([]api.Notification, error)
	MarkNotificationRead(ctx context.Context, token string, id uint) error
}

// Toaster receives one-shot notification toasts.
type Toaster interface {
	Toast(message string, isError bool)
}

// Poller fetches pending notifications on a fixed interval while the
// session is authenticated. Each unread notification is shown once and
// acknowledged fire-and-forget; the backend's is_read flag is the only
// dedup, so a wrongly redelivered unread item would show again. Poll
// failures are logged and retried on the next tick.
type Poller struct {
	Backend  Backend
	Toast    Toaster
	Token    string
	Interval time.Duration
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.Poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Poll runs a single fetch-display-acknowledge pass.
func (p *Poller) Poll(ctx context.Context) {
	l := logging.FromContext(ctx).With("component", "notify.poller")

	notifications, err := p.Backend.Notifications(ctx, p.Token)
	if err != nil {
		l.Warn("poll_failed", "error", err)
		return
	}

	for _, n := range notifications {
		if n.IsRead {
			continue
		}
		isError := strings.Contains(strings.ToLower(n.Title), "fail")
		p.Toast.Toast(n.Message, isError)

		if err := p.Backend.MarkNotificationRead(ctx, p.Token, n.ID); err != nil {
			l.Warn("mark_read_failed", "notification_id", n.ID, "error", err)
		}
	}
}
