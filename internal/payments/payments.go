package payments

import (
	"context"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// Kind discriminates adapter outcomes.
type Kind string

const (
	KindRedirect            Kind = "redirect"
	KindConfirmed           Kind = "confirmed"
	KindPendingManualAction Kind = "pending_manual_action"
)

// BankInstructions is the static content surfaced for manual transfers.
type BankInstructions struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
}

// Outcome is the uniform result of a payment attempt.
type Outcome struct {
	Kind         Kind              `json:"kind"`
	RedirectURL  string            `json:"redirectUrl,omitempty"`
	PaymentID    string            `json:"paymentId,omitempty"`
	Status       string            `json:"status,omitempty"`
	ActionURL    string            `json:"actionUrl,omitempty"`
	ClientSecret string            `json:"clientSecret,omitempty"`
	Instructions *BankInstructions `json:"instructions,omitempty"`
}

// Redirect terminates the local flow with a full-page handoff.
func Redirect(url string) Outcome {
	return Outcome{Kind: KindRedirect, RedirectURL: url}
}

// Confirmed reports an authoritative settlement.
func Confirmed(paymentID, status string) Outcome {
	return Outcome{Kind: KindConfirmed, PaymentID: paymentID, Status: status}
}

// CollectCard hands the embedded card form its intent client secret.
func CollectCard(clientSecret string) Outcome {
	return Outcome{Kind: KindPendingManualAction, ClientSecret: clientSecret}
}

// ManualAction surfaces a link or instructions for the buyer to act on.
func ManualAction(url string, instructions *BankInstructions) Outcome {
	return Outcome{Kind: KindPendingManualAction, ActionURL: url, Instructions: instructions}
}

// Adapter is a payment-method-specific strategy. Preflight runs before
// any order is persisted so configuration gaps fail cheaply. Attempt
// never retries on its own; transient failures surface as errors for the
// state machine.
type Adapter interface {
	Method() types.PaymentMethod
	Preflight() error
	Attempt(ctx context.Context, order *orders.Order, data types.CheckoutData) (Outcome, error)
}
