package api

import "strings"

// PaymentStatus and DeliveryStatus are closed enumerations decoded once
// when an order crosses the API boundary. The backend stores free text
// ("Payment Complete", "Payment In Progress", ...); nothing past this
// package re-parses those strings.

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentInProgress
	PaymentComplete
	PaymentFailed
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentInProgress:
		return "in-progress"
	case PaymentComplete:
		return "complete"
	case PaymentFailed:
		return "failed"
	default:
		return "pending"
	}
}

// DecodePaymentStatus classifies the backend's free-text payment status.
// Matching is case-insensitive substring, same rules the backend's own
// clients apply; unknown text falls back to pending.
func DecodePaymentStatus(raw string) PaymentStatus {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "complete"):
		return PaymentComplete
	case strings.Contains(s, "progress"):
		return PaymentInProgress
	case strings.Contains(s, "failed"):
		return PaymentFailed
	default:
		return PaymentPending
	}
}

type DeliveryStatus int

const (
	DeliveryPending DeliveryStatus = iota
	DeliveryOutForDelivery
	DeliveryDelivered
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryOutForDelivery:
		return "out-for-delivery"
	case DeliveryDelivered:
		return "delivered"
	default:
		return "pending"
	}
}

// DecodeDeliveryStatus maps the backend's delivery status field. The
// backend writes exact values here, so matching is exact; empty means
// not yet dispatched.
func DecodeDeliveryStatus(raw string) DeliveryStatus {
	switch raw {
	case "Delivered":
		return DeliveryDelivered
	case "Out for Delivery":
		return DeliveryOutForDelivery
	default:
		return DeliveryPending
	}
}
