package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/cart"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

var ErrValidation = errors.New("validation")

// CheckoutBackend is the slice of the API client checkout needs.
type CheckoutBackend interface {
	PlaceOrder(ctx context.Context, token string, req api.CreateOrderRequest) (string, error)
}

// Checkout turns the local cart into a backend order. The cart is
// cleared only after the backend acknowledges the order.
type Checkout struct {
	Store   cart.Store
	Backend CheckoutBackend
}

type CheckoutDetails struct {
	Customer       api.CustomerProfile
	Phone          string
	Address        string
	LocationMethod string
	PaymentMethod  string
	DeliveryFee    float64
}

// PlaceOrder validates locally first (no request on failure), prices
// each cart line against the catalogue, submits, and clears the cart on
// success. Returns the backend's human-facing order id.
func (s *Checkout) PlaceOrder(ctx context.Context, token string, details CheckoutDetails, catalogue []api.Product) (string, error) {
	l := logging.FromContext(ctx).With("controller", "orders.checkout")

	if token == "" {
		return "", fmt.Errorf("%w: login required to place an order", ErrValidation)
	}
	if details.Address == "" {
		return "", fmt.Errorf("%w: delivery address required", ErrValidation)
	}

	lines, err := s.Store.Lines(ctx)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	byID := make(map[uint]api.Product, len(catalogue))
	for _, p := range catalogue {
		byID[p.ID] = p
	}

	var items []api.OrderItem
	var productTotal float64
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return "", fmt.Errorf("%w: product %d missing from catalogue", ErrValidation, line.ProductID)
		}
		items = append(items, api.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Price:     product.PriceNow,
			Quantity:  line.Quantity,
		})
		productTotal += product.PriceNow * float64(line.Quantity)
	}

	name := details.Customer.Username
	if name == "" {
		name = details.Customer.Email
	}

	req := api.CreateOrderRequest{
		CustomerID:      details.Customer.ID,
		CustomerName:    name,
		CustomerPhone:   details.Phone,
		CustomerEmail:   details.Customer.Email,
		DeliveryAddress: details.Address,
		LocationMethod:  details.LocationMethod,
		Items:           items,
		ProductTotal:    productTotal,
		DeliveryFee:     details.DeliveryFee,
		TotalAmount:     productTotal + details.DeliveryFee,
		PaymentMethod:   details.PaymentMethod,
	}

	orderID, err := s.Backend.PlaceOrder(ctx, token, req)
	if err != nil {
		return "", err
	}

	if err := s.Store.Clear(ctx); err != nil {
		l.Warn("cart_clear_failed", "order_id", orderID, "error", err)
	}

	l.Info("order_placed", "order_id", orderID, "items", len(items))
	return orderID, nil
}
