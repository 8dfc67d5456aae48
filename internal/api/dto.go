package api

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url"`
	PriceNow    float64  `json:"price_now"`
	PriceOld    *float64 `json:"price_old,omitempty"`
	Category    string   `json:"category"`
	IsAvailable bool     `json:"is_available"`
}

type OrderItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the read/write cache entry for one backend order. Payment and
// Delivery are decoded from the raw status strings during unmarshalling;
// the raw text is kept only for display.
type Order struct {
	ID              uint        `json:"id"`
	OrderID         string      `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	DeliveryAddress string      `json:"delivery_address"`
	Items           []OrderItem `json:"items"`
	ProductTotal    float64     `json:"product_total"`
	DeliveryFee     float64     `json:"delivery_fee"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method"`
	RawPayment      string      `json:"payment_status"`
	RawDelivery     string      `json:"status"`
	StaffID         *uint       `json:"staff_id"`
	IsArchived      bool        `json:"is_archived"`
	CreatedAt       time.Time   `json:"created_at"`
	DeliveredAt     *time.Time  `json:"delivered_at"`

	Payment  PaymentStatus  `json:"-"`
	Delivery DeliveryStatus `json:"-"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	if err := json.Unmarshal(data, (*alias)(o)); err != nil {
		return err
	}
	o.Payment = DecodePaymentStatus(o.RawPayment)
	o.Delivery = DecodeDeliveryStatus(o.RawDelivery)
	return nil
}

// Claimed reports whether a staff member owns this order.
func (o *Order) Claimed() bool {
	return o.StaffID != nil
}

type CreateOrderRequest struct {
	CustomerID      uint        `json:"customer_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	DeliveryAddress string      `json:"delivery_address"`
	LocationMethod  string      `json:"location_method,omitempty"`
	Items           []OrderItem `json:"items"`
	ProductTotal    float64     `json:"product_total"`
	DeliveryFee     float64     `json:"delivery_fee"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method"`
}

type Notification struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	RelatedOrderID string    `json:"related_order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Settings struct {
	AllowPayOnDelivery bool    `json:"allow_pay_on_delivery"`
	MinDeliveryFee     float64 `json:"min_delivery_fee"`
	ConvenienceFee     float64 `json:"convenience_fee"`
	CustomerCareNumber string  `json:"customer_care_number,omitempty"`
}

type CustomerProfile struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type StaffProfile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name,omitempty"`
	TrackingLink string `json:"tracking_link,omitempty"`
}

type TrackingInfo struct {
	Available bool   `json:"tracking_available"`
	Link      string `json:"tracking_link,omitempty"`
}
