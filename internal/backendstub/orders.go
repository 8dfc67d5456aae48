package backendstub

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

func (s *Server) ListProducts(c echo.Context) error {
	var products []Product
	if err := s.DB.WithContext(c.Request().Context()).Where("is_available = ?", true).Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) GetSettings(c echo.Context) error {
	var settings Settings
	if err := s.DB.WithContext(c.Request().Context()).First(&settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	q := s.DB.WithContext(ctx).Order("created_at desc")
	if role(c) == "customer" {
		q = q.Where("customer_id = ?", userID(c))
	}

	var orders []Order
	if err := q.Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (s *Server) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req Order
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "items required")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return fail(c, http.StatusBadRequest, "quantity must be > 0")
		}
	}
	if req.PaymentMethod != "Cash" && req.PaymentMethod != "Pay Now" {
		return fail(c, http.StatusBadRequest, "unknown payment method")
	}

	customerID := userID(c)
	order := Order{
		OrderID:         "SB-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerID:      &customerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		DeliveryAddress: req.DeliveryAddress,
		LocationMethod:  req.LocationMethod,
		Items:           req.Items,
		ProductTotal:    req.ProductTotal,
		DeliveryFee:     req.DeliveryFee,
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   "Pending Payment",
	}
	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		l.Error("create_order_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	// Server-side cart is spent once the order exists.
	s.DB.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&CartItem{})

	l.Info("order_created", "order_id", order.OrderID)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order_id": order.OrderID})
}

func (s *Server) orderByParam(c echo.Context) (*Order, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	var order Order
	if err := s.DB.WithContext(c.Request().Context()).First(&order, uint(id)).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Server) ClaimOrder(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if order.StaffID != nil {
		return fail(c, http.StatusConflict, "Order already claimed by another staff member")
	}
	if order.IsArchived {
		return fail(c, http.StatusConflict, "Order is archived")
	}

	staffID := userID(c)
	updates := map[string]any{"staff_id": staffID, "status": "Out for Delivery"}
	if err := s.DB.WithContext(c.Request().Context()).Model(order).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) UnclaimOrder(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	staffID := userID(c)
	if order.StaffID == nil || *order.StaffID != staffID {
		return fail(c, http.StatusConflict, "Order is not claimed by you")
	}
	if order.Status == "Delivered" {
		return fail(c, http.StatusConflict, "Delivered orders cannot be unclaimed")
	}

	updates := map[string]any{"staff_id": nil, "status": ""}
	if err := s.DB.WithContext(c.Request().Context()).Model(order).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RequestPayment simulates the STK push: the order moves to in-progress
// and the customer is notified on their phone out of band.
func (s *Server) RequestPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.request_payment")

	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if order.StaffID == nil {
		return fail(c, http.StatusConflict, "Claim the order before requesting payment")
	}
	if order.PaymentStatus == "Payment Complete" {
		return fail(c, http.StatusConflict, "Order is already paid")
	}

	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil || req.Phone == "" {
		return fail(c, http.StatusBadRequest, "phone required")
	}

	if err := s.DB.WithContext(ctx).Model(order).Update("payment_status", "Payment In Progress").Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	s.notifyCustomer(c, order, "Payment Request", fmt.Sprintf("A payment prompt for order %s was sent to %s", order.OrderID, req.Phone))

	l.Info("payment_requested", "order_id", order.OrderID, "phone", req.Phone)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) MarkPaid(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if order.StaffID == nil {
		return fail(c, http.StatusConflict, "Claim the order before marking it paid")
	}
	if order.PaymentStatus == "Payment Complete" {
		return fail(c, http.StatusConflict, "Order is already paid")
	}

	if err := s.DB.WithContext(c.Request().Context()).Model(order).Update("payment_status", "Payment Complete").Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	s.notifyCustomer(c, order, "Payment Received", fmt.Sprintf("Cash payment received for order %s", order.OrderID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) DeliverOrder(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if order.StaffID == nil {
		return fail(c, http.StatusConflict, "Claim the order before delivering")
	}
	if order.Status == "Delivered" {
		return fail(c, http.StatusConflict, "Order is already delivered")
	}

	now := time.Now().UTC()
	updates := map[string]any{"status": "Delivered", "delivered_at": now}
	if order.PaymentStatus == "Payment Complete" {
		updates["is_archived"] = true
	}
	if err := s.DB.WithContext(c.Request().Context()).Model(order).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	s.notifyCustomer(c, order, "Order Delivered", fmt.Sprintf("Order %s has been delivered. Enjoy!", order.OrderID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) OrderTracking(c echo.Context) error {
	order, err := s.orderByParam(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if order.StaffID == nil {
		return c.JSON(http.StatusOK, echo.Map{"tracking_available": false})
	}

	var staff Staff
	if err := s.DB.WithContext(c.Request().Context()).First(&staff, *order.StaffID).Error; err != nil || staff.TrackingLink == "" {
		return c.JSON(http.StatusOK, echo.Map{"tracking_available": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"tracking_available": true, "tracking_link": staff.TrackingLink})
}

func (s *Server) notifyCustomer(c echo.Context, order *Order, title, message string) {
	if order.CustomerID == nil {
		return
	}
	n := Notification{
		UserType:       "customer",
		UserID:         *order.CustomerID,
		Title:          title,
		Message:        message,
		RelatedOrderID: order.OrderID,
	}
	if err := s.DB.WithContext(c.Request().Context()).Create(&n).Error; err != nil {
		logging.FromContext(c.Request().Context()).Warn("notify_failed", "order_id", order.OrderID, "error", err)
	}
}

func (s *Server) AddToCart(c echo.Context) error {
	if role(c) != "customer" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		return fail(c, http.StatusBadRequest, "product_id and quantity>0 required")
	}

	ctx := c.Request().Context()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CartItem{}).
			Where("customer_id = ? AND product_id = ?", userID(c), req.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&CartItem{CustomerID: userID(c), ProductID: req.ProductID, Quantity: req.Quantity}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) GetCart(c echo.Context) error {
	if role(c) != "customer" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var items []CartItem
	if err := s.DB.WithContext(c.Request().Context()).Where("customer_id = ?", userID(c)).Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) ListNotifications(c echo.Context) error {
	var notifications []Notification
	err := s.DB.WithContext(c.Request().Context()).
		Where("user_type = ? AND user_id = ?", role(c), userID(c)).
		Order("created_at desc").Limit(50).
		Find(&notifications).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "notifications": notifications})
}

func (s *Server) MarkNotificationRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	res := s.DB.WithContext(c.Request().Context()).
		Model(&Notification{}).
		Where("id = ? AND user_type = ? AND user_id = ?", uint(id), role(c), userID(c)).
		Update("is_read", true)
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "Notification not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
