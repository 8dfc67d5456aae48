package orders

import (
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
)

// Badge is a rendered status: a human label plus the style class the
// portal templates key on.
type Badge struct {
	Label string
	Class string
}

// CustomerView collapses both status axes into the single summary a
// customer sees: delivery outranks payment.
func CustomerView(o *api.Order) Badge {
	if o.Delivery == api.DeliveryDelivered {
		return Badge{Label: "Delivered", Class: "status-delivered"}
	}
	switch o.Payment {
	case api.PaymentComplete:
		return Badge{Label: "Paid", Class: "status-payment-successful"}
	case api.PaymentFailed:
		return Badge{Label: "Pending Payment", Class: "status-payment-failed"}
	default:
		return Badge{Label: "Pending Payment", Class: "status-payment-progress"}
	}
}

// StaffView keeps payment and delivery as independent badges: staff need
// both axes to pick the next action.
type StaffProjection struct {
	Payment  Badge
	Delivery Badge
}

func StaffView(o *api.Order) StaffProjection {
	return StaffProjection{
		Payment:  paymentBadge(o),
		Delivery: deliveryBadge(o),
	}
}

func paymentBadge(o *api.Order) Badge {
	label := o.RawPayment
	if label == "" {
		label = "Pending Payment"
	}
	switch o.Payment {
	case api.PaymentComplete:
		return Badge{Label: label, Class: "status-complete"}
	case api.PaymentInProgress:
		return Badge{Label: label, Class: "status-progress"}
	case api.PaymentFailed:
		return Badge{Label: label, Class: "status-failed"}
	default:
		return Badge{Label: label, Class: "status-pending"}
	}
}

func deliveryBadge(o *api.Order) Badge {
	label := o.RawDelivery
	if label == "" {
		label = "Pending"
	}
	switch o.Delivery {
	case api.DeliveryDelivered:
		return Badge{Label: label, Class: "status-delivered"}
	case api.DeliveryOutForDelivery:
		return Badge{Label: label, Class: "status-progress"}
	default:
		return Badge{Label: label, Class: "status-pending"}
	}
}
