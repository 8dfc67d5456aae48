package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/audit"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/config"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/localdb"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/orders"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/session"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/term"
)

const orderRefreshInterval = 15 * time.Second

type app struct {
	cfg        *config.Config
	client     *api.Client
	sessions   *session.Store
	ui         *term.Term
	auditor    audit.Publisher
	controller *orders.Controller
	profile    *api.StaffProfile
	token      string
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := localdb.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}
	sessions, err := session.NewStore(db)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	var auditor audit.Publisher = audit.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		defer kp.Close()
		auditor = kp
	}

	a := &app{
		cfg:      cfg,
		client:   api.NewClient(cfg.BackendURL),
		sessions: sessions,
		ui:       term.New(os.Stdin, os.Stdout),
		auditor:  auditor,
	}

	if !a.authenticate(ctx) {
		return
	}
	a.dashboard(ctx)
}

// authenticate restores a stored session or logs in, then applies the
// tracking-link gate: staff without one set it before anything else.
func (a *app) authenticate(ctx context.Context) bool {
	token, err := a.sessions.Token(ctx, api.RoleStaff)
	if err == nil && token != "" && !session.TokenExpired(token, time.Now()) {
		if profile, err := a.client.StaffProfile(ctx, token); err == nil {
			a.token = token
			a.profile = profile
		}
	}

	for a.profile == nil {
		email := a.ui.Prompt("email")
		password := a.ui.Prompt("password")
		result, err := a.client.Login(ctx, api.RoleStaff, email, password)
		if err != nil {
			a.ui.Alert("Login failed: " + err.Error())
			if !a.ui.Confirm("Try again?") {
				return false
			}
			continue
		}
		a.token = result.Token
		a.sessions.SetToken(ctx, api.RoleStaff, result.Token)
		profile, err := a.client.StaffProfile(ctx, result.Token)
		if err != nil {
			a.ui.Alert("Could not load your profile")
			return false
		}
		a.profile = profile
	}

	for session.RouteFor(a.profile) == session.RouteTrackingSetup {
		a.ui.Alert("Please set your tracking link to continue")
		link := a.ui.Prompt("tracking link")
		if link == "" {
			a.ui.Alert("Please enter a valid tracking link")
			continue
		}
		if err := a.client.SetTrackingLink(ctx, a.token, link); err != nil {
			a.ui.Alert("Failed to save tracking link: " + err.Error())
			continue
		}
		a.profile.TrackingLink = link
		a.ui.Flash("Tracking link saved")
	}
	return true
}

func (a *app) dashboard(ctx context.Context) {
	a.controller = orders.NewController(a.client, a.ui, a.ui, a.auditor, a.token, a.profile.ID)
	if err := a.controller.Refresh(ctx); err != nil {
		a.ui.Alert("Could not load orders")
	}

	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.refreshLoop(refreshCtx)

	fmt.Println("SafariBytes staff - type 'help' for commands")
	for {
		switch cmd := a.ui.Prompt(">"); cmd {
		case "orders":
			a.listOrders()
		case "view":
			a.viewOrder()
		case "claim":
			a.withOrderID(func(id uint) { a.controller.Claim(ctx, id) })
		case "unclaim":
			a.withOrderID(func(id uint) { a.controller.Unclaim(ctx, id) })
		case "pay":
			a.requestPayment(ctx)
		case "paid":
			a.withOrderID(func(id uint) { a.controller.MarkPaid(ctx, id) })
		case "deliver":
			a.withOrderID(func(id uint) { a.controller.Deliver(ctx, id) })
		case "stats":
			a.showStats()
		case "logout":
			a.sessions.ClearToken(ctx, api.RoleStaff)
			a.ui.Flash("Logged out")
			return
		case "quit", "exit":
			return
		case "help":
			fmt.Println("commands: orders view claim unclaim pay paid deliver stats logout quit")
		default:
			fmt.Println("unknown command, type 'help'")
		}
	}
}

func (a *app) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(orderRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.controller.Refresh(ctx); err != nil {
				logging.FromContext(ctx).Warn("order_refresh_failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *app) withOrderID(run func(id uint)) {
	id, err := strconv.ParseUint(a.ui.Prompt("order id"), 10, 64)
	if err != nil {
		a.ui.Alert("Enter a numeric order id")
		return
	}
	run(uint(id))
}

func (a *app) requestPayment(ctx context.Context) {
	a.withOrderID(func(id uint) {
		order, ok := a.controller.Get(id)
		if !ok {
			a.ui.Alert("Order not found")
			return
		}
		phone := a.ui.Prompt("phone for M-Pesa payment (" + order.CustomerPhone + ")")
		if phone == "" {
			phone = order.CustomerPhone
		}
		a.controller.RequestPayment(ctx, id, phone)
	})
}

func (a *app) listOrders() {
	fmt.Println("-- available --")
	printOrders(a.controller.Available())
	fmt.Println("-- mine --")
	printOrders(a.controller.Mine())
}

func printOrders(list []api.Order) {
	if len(list) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i := range list {
		view := orders.StaffView(&list[i])
		fmt.Printf("  %4d  #%-12s KES %8.2f  [%s] [%s]\n",
			list[i].ID, list[i].OrderID, list[i].TotalAmount, view.Payment.Label, view.Delivery.Label)
	}
}

func (a *app) viewOrder() {
	a.withOrderID(func(id uint) {
		order, ok := a.controller.Get(id)
		if !ok {
			a.ui.Alert("Order not found")
			return
		}
		view := orders.StaffView(&order)
		fmt.Printf("Order #%s - %s (%s)\n", order.OrderID, order.CustomerName, order.CustomerPhone)
		fmt.Printf("  %s\n", order.DeliveryAddress)
		for _, item := range order.Items {
			fmt.Printf("  %-30s x %d  KES %.2f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
		}
		fmt.Printf("  Total: KES %.2f (%s)\n", order.TotalAmount, order.PaymentMethod)
		fmt.Printf("  [%s] [%s]\n", view.Payment.Label, view.Delivery.Label)
		fmt.Print("  actions:")
		for _, action := range orders.AvailableActions(&order) {
			fmt.Printf(" %s", action)
		}
		fmt.Println()
	})
}

func (a *app) showStats() {
	s := a.controller.Stats(time.Now())
	fmt.Printf("today's deliveries: %d\ncompleted: %d\npending: %d\ncash: %d\npay now: %d\n",
		s.TodayDeliveries, s.Completed, s.Pending, s.CashPayments, s.PayNowPayments)
}
