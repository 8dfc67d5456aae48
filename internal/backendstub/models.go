package backendstub

import (
	"time"
)

type Customer struct {
	ID           uint   `gorm:"primaryKey"      json:"id"`
	Email        string `gorm:"uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"not null"        json:"-"`
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name"`
	IsActive     bool   `gorm:"default:true"    json:"is_active"`
}

type Staff struct {
	ID           uint   `gorm:"primaryKey"      json:"id"`
	Email        string `gorm:"uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"not null"        json:"-"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name"`
	IsApproved   bool   `gorm:"default:true"    json:"is_approved"`
	TrackingLink string `json:"tracking_link"`
}

type Admin struct {
	ID           uint   `gorm:"primaryKey"  json:"id"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `gorm:"not null"    json:"-"`
}

type Product struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"not null"   json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	PriceNow    float64  `gorm:"not null"   json:"price_now"`
	PriceOld    *float64 `json:"price_old"`
	Category    string   `json:"category"`
	IsAvailable bool     `gorm:"default:true" json:"is_available"`
}

type OrderItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey"              json:"id"`
	OrderID         string      `gorm:"uniqueIndex;not null"    json:"order_id"`
	CustomerID      *uint       `json:"customer_id"`
	CustomerName    string      `gorm:"not null"                json:"customer_name"`
	CustomerPhone   string      `gorm:"not null"                json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email"`
	DeliveryAddress string      `gorm:"not null"                json:"delivery_address"`
	LocationMethod  string      `json:"location_method"`
	Items           []OrderItem `gorm:"serializer:json"         json:"items"`
	ProductTotal    float64     `gorm:"not null"                json:"product_total"`
	DeliveryFee     float64     `gorm:"not null"                json:"delivery_fee"`
	TotalAmount     float64     `gorm:"not null"                json:"total_amount"`
	PaymentMethod   string      `gorm:"not null"                json:"payment_method"`
	PaymentStatus   string      `gorm:"default:Pending Payment" json:"payment_status"`
	Status          string      `json:"status"`
	StaffID         *uint       `json:"staff_id"`
	IsArchived      bool        `gorm:"default:false"           json:"is_archived"`
	DeliveredAt     *time.Time  `json:"delivered_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

type CartItem struct {
	ID         uint `gorm:"primaryKey"                             json:"id"`
	CustomerID uint `gorm:"uniqueIndex:idx_customer_product;not null" json:"customer_id"`
	ProductID  uint `gorm:"uniqueIndex:idx_customer_product;not null" json:"product_id"`
	Quantity   int  `gorm:"default:1;check:quantity>0"             json:"quantity"`
}

type Notification struct {
	ID             uint      `gorm:"primaryKey"    json:"id"`
	UserType       string    `gorm:"not null"      json:"user_type"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Title          string    `gorm:"not null"      json:"title"`
	Message        string    `gorm:"not null"      json:"message"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	RelatedOrderID string    `json:"related_order_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type Settings struct {
	ID                 uint    `gorm:"primaryKey"    json:"-"`
	AllowPayOnDelivery bool    `gorm:"default:true"  json:"allow_pay_on_delivery"`
	MinDeliveryFee     float64 `gorm:"default:100"   json:"min_delivery_fee"`
	ConvenienceFee     float64 `gorm:"default:0"     json:"convenience_fee"`
	CustomerCareNumber string  `json:"customer_care_number"`
}

type OTPVerification struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;not null"`
	Code      string    `gorm:"not null"`
	Purpose   string    `gorm:"not null"`
	IsUsed    bool      `gorm:"default:false"`
	CreatedAt time.Time
}
