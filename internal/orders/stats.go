package orders

import (
	"time"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
)

// DayStats is the staff dashboard summary, computed from the cached
// order list.
type DayStats struct {
	TodayDeliveries int
	Completed       int
	Pending         int
	CashPayments    int
	PayNowPayments  int
}

func (c *Controller) Stats(now time.Time) DayStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s DayStats
	today := now.Format("2006-01-02")
	for i := range c.cache {
		o := &c.cache[i]
		if !o.Claimed() {
			continue
		}
		if o.Delivery == api.DeliveryDelivered && o.DeliveredAt != nil && o.DeliveredAt.Format("2006-01-02") == today {
			s.TodayDeliveries++
		}
		if o.IsArchived {
			s.Completed++
		} else {
			s.Pending++
		}
		switch o.PaymentMethod {
		case "Cash":
			s.CashPayments++
		case "Pay Now":
			s.PayNowPayments++
		}
	}
	return s
}
