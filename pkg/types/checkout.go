package types

import "strings"

// DeliveryMethod distinguishes store pickup from home delivery.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// PaymentMethod selects one of the four payment strategies.
type PaymentMethod string

const (
	PaymentWhatsApp        PaymentMethod = "whatsapp"
	PaymentGatewayRedirect PaymentMethod = "gateway_redirect"
	PaymentGatewayCard     PaymentMethod = "gateway_card"
	PaymentTransfer        PaymentMethod = "transfer"
)

// Customer is the contact block collected on the first checkout step.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// DeliveryAddress is collected only for home delivery.
type DeliveryAddress struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Delivery is the second checkout step's payload.
type Delivery struct {
	Method       DeliveryMethod   `json:"method"`
	Address      *DeliveryAddress `json:"address,omitempty"`
	Observations string           `json:"observations,omitempty"`
}

// CheckoutData accumulates across steps. Mutated additively, never reset
// mid-flow except on a full restart.
type CheckoutData struct {
	Customer      *Customer      `json:"customer,omitempty"`
	Delivery      *Delivery      `json:"delivery,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
}

// Merge applies non-nil fields of updates on top of the receiver.
func (d *CheckoutData) Merge(updates CheckoutData) {
	if updates.Customer != nil {
		d.Customer = updates.Customer
	}
	if updates.Delivery != nil {
		d.Delivery = updates.Delivery
	}
	if updates.PaymentMethod != nil {
		d.PaymentMethod = updates.PaymentMethod
	}
}

// ParsePaymentMethod validates a wire value.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.TrimSpace(raw)) {
	case PaymentWhatsApp:
		return PaymentWhatsApp, true
	case PaymentGatewayRedirect:
		return PaymentGatewayRedirect, true
	case PaymentGatewayCard:
		return PaymentGatewayCard, true
	case PaymentTransfer:
		return PaymentTransfer, true
	default:
		return "", false
	}
}
