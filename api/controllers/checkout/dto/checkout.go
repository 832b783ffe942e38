package dto

import (
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/mercadopago"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// UpdateDataRequest merges partial checkout data; absent blocks are left
// untouched.
type UpdateDataRequest struct {
	Customer      *types.Customer `json:"customer,omitempty"`
	Delivery      *DeliveryBlock  `json:"delivery,omitempty"`
	PaymentMethod *string         `json:"paymentMethod,omitempty" validate:"omitempty,oneof=whatsapp gateway_redirect gateway_card transfer"`
}

type DeliveryBlock struct {
	Method       string                 `json:"method" validate:"required,oneof=pickup delivery"`
	Address      *types.DeliveryAddress `json:"address,omitempty"`
	Observations string                 `json:"observations,omitempty" validate:"max=500"`
}

func (r UpdateDataRequest) Data() types.CheckoutData {
	data := types.CheckoutData{Customer: r.Customer}
	if r.Delivery != nil {
		data.Delivery = &types.Delivery{
			Method:       types.DeliveryMethod(r.Delivery.Method),
			Address:      r.Delivery.Address,
			Observations: r.Delivery.Observations,
		}
	}
	if r.PaymentMethod != nil {
		if method, ok := types.ParsePaymentMethod(*r.PaymentMethod); ok {
			data.PaymentMethod = &method
		}
	}
	return data
}

// SubmitPaymentRequest selects the payment strategy for the attempt.
type SubmitPaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=whatsapp gateway_redirect gateway_card transfer"`
}

// BrickSubmitRequest is the tokenized card payload from the widget.
type BrickSubmitRequest struct {
	Token           string `json:"token" validate:"required"`
	Installments    int    `json:"installments" validate:"omitempty,min=1"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	IssuerID        string `json:"issuerId,omitempty"`
	PayerEmail      string `json:"payerEmail,omitempty" validate:"omitempty,email"`
}

func (r BrickSubmitRequest) FormData() mercadopago.FormData {
	return mercadopago.FormData{
		Token:           r.Token,
		Installments:    r.Installments,
		PaymentMethodID: r.PaymentMethodID,
		IssuerID:        r.IssuerID,
		PayerEmail:      r.PayerEmail,
	}
}

// ConfirmCardRequest settles a previously created payment intent.
type ConfirmCardRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// SessionResponse is the session plus the widget's public key when the
// embedded gateway form applies.
type SessionResponse struct {
	*checkout.Session
	MPPublicKey string `json:"mpPublicKey,omitempty"`
}

func NewSessionResponse(session *checkout.Session, mpPublicKey string) SessionResponse {
	return SessionResponse{Session: session, MPPublicKey: mpPublicKey}
}
