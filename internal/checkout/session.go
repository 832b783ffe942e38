package checkout

import (
	"strings"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// Step is one stage of the checkout flow.
type Step string

const (
	StepCustomer     Step = "customer"
	StepDelivery     Step = "delivery"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// Session is one buyer's checkout in progress. Steps only move forward
// except for the two allowed back transitions; confirmation is terminal.
type Session struct {
	ID            string             `json:"id"`
	StoreID       string             `json:"storeId"`
	CartSessionID string             `json:"cartSessionId"`
	Step          Step               `json:"step"`
	Cart          cart.State         `json:"cart"`
	Data          types.CheckoutData `json:"data"`
	Order         *orders.Order      `json:"order,omitempty"`
	Outcome       *payments.Outcome  `json:"outcome,omitempty"`
	Loading       bool               `json:"loading"`
	ErrorCode     pkgerrors.Reason   `json:"errorCode,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// next reports the step after s, or "" when s does not advance linearly.
func (s Step) next() Step {
	switch s {
	case StepCustomer:
		return StepDelivery
	case StepDelivery:
		return StepPayment
	default:
		return ""
	}
}

// prev reports the allowed backward transition, or "" when none exists.
func (s Step) prev() Step {
	switch s {
	case StepDelivery:
		return StepCustomer
	case StepPayment:
		return StepDelivery
	default:
		return ""
	}
}

// validateStep checks only the data the given step collects. requireState
// enables the state/province rule for the store's country.
func validateStep(step Step, data types.CheckoutData, requireState bool) *pkgerrors.Error {
	switch step {
	case StepCustomer:
		if data.Customer == nil || isBlank(data.Customer.Name) {
			return pkgerrors.Invalid(pkgerrors.ReasonNameRequired)
		}
		if isBlank(data.Customer.Phone) {
			return pkgerrors.Invalid(pkgerrors.ReasonPhoneRequired)
		}
	case StepDelivery:
		if data.Delivery == nil || data.Delivery.Method == "" {
			return pkgerrors.Invalid(pkgerrors.ReasonMethodRequired)
		}
		if data.Delivery.Method == types.DeliveryPickup {
			return nil
		}
		addr := data.Delivery.Address
		if addr == nil || isBlank(addr.Street) {
			return pkgerrors.Invalid(pkgerrors.ReasonAddressRequired)
		}
		if isBlank(addr.City) {
			return pkgerrors.Invalid(pkgerrors.ReasonCityRequired)
		}
		if requireState && isBlank(addr.State) {
			return pkgerrors.Invalid(pkgerrors.ReasonStateRequired)
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
