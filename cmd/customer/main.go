package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/cart"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/config"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/localdb"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/notify"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/orders"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/session"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/term"
)

type app struct {
	cfg      *config.Config
	client   *api.Client
	store    cart.Store
	sessions *session.Store
	ui       *term.Term

	token      string
	profile    *api.CustomerProfile
	settings   *api.Settings
	catalogue  []api.Product
	stopPoller context.CancelFunc
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := localdb.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}

	var store cart.Store
	if cfg.RedisAddr != "" {
		store = cart.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		store, err = cart.NewSQLiteStore(db)
		if err != nil {
			log.Fatalf("cart store: %v", err)
		}
	}

	sessions, err := session.NewStore(db)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	a := &app{
		cfg:      cfg,
		client:   api.NewClient(cfg.BackendURL),
		store:    store,
		sessions: sessions,
		ui:       term.New(os.Stdin, os.Stdout),
	}
	a.start(ctx)
	a.loop(ctx)
}

func (a *app) start(ctx context.Context) {
	expired, err := cart.CheckExpiry(ctx, a.store, time.Now())
	if err != nil {
		logging.FromContext(ctx).Warn("expiry_check_failed", "error", err)
	}
	if expired {
		a.ui.Alert("Your cart has expired")
	}

	if products, err := a.client.Products(ctx); err == nil {
		a.catalogue = products
	} else {
		a.ui.Alert("Could not load the menu, try again later")
	}
	if settings, err := a.client.Settings(ctx); err == nil {
		a.settings = settings
	}

	token, err := a.sessions.Token(ctx, api.RoleCustomer)
	if err != nil || token == "" || session.TokenExpired(token, time.Now()) {
		return
	}
	profile, err := a.client.CustomerProfile(ctx, token)
	if err != nil {
		a.sessions.ClearToken(ctx, api.RoleCustomer)
		return
	}
	a.token = token
	a.profile = profile
	a.afterAuth(ctx)
}

// afterAuth runs the anonymous-to-authenticated transition: merge the
// local cart into the server cart and start the notification poller.
func (a *app) afterAuth(ctx context.Context) {
	reconciler := &cart.Reconciler{Store: a.store, Server: a.client}
	if err := reconciler.Sync(ctx, a.token); err != nil {
		logging.FromContext(ctx).Warn("cart_sync_failed", "error", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	a.stopPoller = cancel
	poller := &notify.Poller{
		Backend:  a.client,
		Toast:    a.ui,
		Token:    a.token,
		Interval: a.cfg.PollInterval,
	}
	go poller.Run(pollCtx)
}

func (a *app) loop(ctx context.Context) {
	fmt.Println("SafariBytes - type 'help' for commands")
	for {
		switch cmd := a.ui.Prompt(">"); cmd {
		case "menu":
			a.showMenu(ctx)
		case "add":
			a.adjust(ctx, +1)
		case "remove":
			a.adjust(ctx, -1)
		case "cart":
			a.showCart(ctx)
		case "checkout":
			a.checkout(ctx)
		case "orders":
			a.showOrders(ctx)
		case "track":
			a.track(ctx)
		case "login":
			a.login(ctx)
		case "register":
			a.register(ctx)
		case "logout":
			a.logout(ctx)
		case "quit", "exit":
			return
		case "help":
			fmt.Println("commands: menu add remove cart checkout orders track login register logout quit")
		default:
			fmt.Println("unknown command, type 'help'")
		}
	}
}

func (a *app) showMenu(ctx context.Context) {
	if products, err := a.client.Products(ctx); err == nil {
		a.catalogue = products
	}
	for _, p := range a.catalogue {
		fmt.Printf("%4d  %-30s KES %.2f\n", p.ID, p.Name, p.PriceNow)
	}
}

func (a *app) adjust(ctx context.Context, delta int) {
	id, err := strconv.ParseUint(a.ui.Prompt("product id"), 10, 64)
	if err != nil {
		a.ui.Alert("Enter a numeric product id")
		return
	}
	if err := a.store.Add(ctx, uint(id), delta); err != nil {
		a.ui.Alert("Could not update your cart")
		return
	}
	total, _ := a.store.TotalItems(ctx)
	fmt.Printf("%d items in cart\n", total)
}

func (a *app) showCart(ctx context.Context) {
	lines, err := a.store.Lines(ctx)
	if err != nil {
		a.ui.Alert("Could not read your cart")
		return
	}
	if len(lines) == 0 {
		fmt.Println("Your cart is empty")
		return
	}
	byID := make(map[uint]api.Product, len(a.catalogue))
	for _, p := range a.catalogue {
		byID[p.ID] = p
	}
	var total float64
	for _, line := range lines {
		p := byID[line.ProductID]
		subtotal := p.PriceNow * float64(line.Quantity)
		total += subtotal
		fmt.Printf("%-30s x %d  KES %.2f\n", p.Name, line.Quantity, subtotal)
	}
	fmt.Printf("Total: KES %.2f\n", total)
}

func (a *app) checkout(ctx context.Context) {
	if a.profile == nil {
		a.ui.Alert("Please login to place an order")
		return
	}
	phone := a.ui.Prompt("phone")
	if phone == "" {
		phone = a.profile.Phone
	}
	address := a.ui.Prompt("delivery address")
	method := a.ui.Prompt("payment method (Cash / Pay Now)")

	var fee float64
	if a.settings != nil {
		fee = a.settings.MinDeliveryFee
	}

	checkout := &orders.Checkout{Store: a.store, Backend: a.client}
	orderID, err := checkout.PlaceOrder(ctx, a.token, orders.CheckoutDetails{
		Customer:      *a.profile,
		Phone:         phone,
		Address:       address,
		PaymentMethod: method,
		DeliveryFee:   fee,
	}, a.catalogue)
	if err != nil {
		a.ui.Alert("Order failed: " + err.Error())
		return
	}
	a.ui.Flash("Order placed successfully! Order ID: " + orderID)
}

func (a *app) showOrders(ctx context.Context) {
	if a.token == "" {
		a.ui.Alert("Please login to view your orders")
		return
	}
	list, err := a.client.Orders(ctx, a.token)
	if err != nil {
		a.ui.Alert("Error loading orders")
		return
	}
	for i := range list {
		badge := orders.CustomerView(&list[i])
		fmt.Printf("#%-12s KES %8.2f  %s\n", list[i].OrderID, list[i].TotalAmount, badge.Label)
	}
}

func (a *app) track(ctx context.Context) {
	id, err := strconv.ParseUint(a.ui.Prompt("order id"), 10, 64)
	if err != nil {
		a.ui.Alert("Enter a numeric order id")
		return
	}
	info, err := a.client.OrderTracking(ctx, uint(id))
	if err != nil {
		a.ui.Alert("Error loading tracking information")
		return
	}
	if !info.Available {
		a.ui.Alert("Tracking not available yet. Your order has not been assigned to a delivery staff.")
		return
	}
	fmt.Println("Track your order: " + info.Link)
}

func (a *app) login(ctx context.Context) {
	email := a.ui.Prompt("email")
	password := a.ui.Prompt("password")

	result, err := a.client.Login(ctx, api.RoleCustomer, email, password)
	if err != nil {
		a.ui.Alert("Login failed: " + err.Error())
		return
	}
	a.finishAuth(ctx, result.Token)
	a.ui.Flash("Login successful!")
}

func (a *app) register(ctx context.Context) {
	email := a.ui.Prompt("email")
	username := a.ui.Prompt("username")
	password := a.ui.Prompt("password")
	phone := a.ui.Prompt("phone")

	// Local validation happens before any request goes out.
	if len(password) < 5 {
		a.ui.Alert("Password must be at least 5 characters long")
		return
	}
	if !a.ui.Confirm("Do you accept the terms and conditions?") {
		a.ui.Alert("You must accept the terms and conditions")
		return
	}

	if err := a.client.SendOTP(ctx, email); err != nil {
		a.ui.Alert("Could not send verification code: " + err.Error())
		return
	}
	code := a.ui.Prompt("verification code")

	token, err := a.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		Phone:    phone,
		OTP:      code,
	})
	if err != nil {
		a.ui.Alert("Registration failed: " + err.Error())
		return
	}
	a.finishAuth(ctx, token)
	a.ui.Flash("Welcome to SafariBytes!")
}

func (a *app) finishAuth(ctx context.Context, token string) {
	a.token = token
	if err := a.sessions.SetToken(ctx, api.RoleCustomer, token); err != nil {
		logging.FromContext(ctx).Warn("token_store_failed", "error", err)
	}
	if profile, err := a.client.CustomerProfile(ctx, token); err == nil {
		a.profile = profile
	}
	a.afterAuth(ctx)
}

func (a *app) logout(ctx context.Context) {
	if a.stopPoller != nil {
		a.stopPoller()
		a.stopPoller = nil
	}
	a.token = ""
	a.profile = nil
	a.sessions.ClearToken(ctx, api.RoleCustomer)
	if err := a.store.Clear(ctx); err != nil {
		logging.FromContext(ctx).Warn("cart_clear_failed", "error", err)
	}
	a.ui.Flash("Logged out")
}
