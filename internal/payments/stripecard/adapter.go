// Package stripecard charges cards through Stripe PaymentIntents: the
// intent is created server side before the form renders, and settlement
// is verified by retrieving the intent after the buyer confirms.
package stripecard

import (
	"context"
	"strings"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
)

// zeroDecimalCurrencies have no minor unit; their amounts go to Stripe
// unscaled.
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {},
	"krw": {}, "mga": {}, "pyg": {}, "rwf": {}, "ugx": {}, "vnd": {},
	"vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// intentAPI is the slice of the Stripe SDK the adapter exercises.
type intentAPI interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
	Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentRetrieveParams) (*stripe.PaymentIntent, error)
}

// Adapter creates and verifies payment intents for one store.
type Adapter struct {
	intents  intentAPI
	cfg      config.StripeConfig
	currency string
	store    orders.Store
}

func NewAdapter(cfg config.StripeConfig, currency string, store orders.Store) (*Adapter, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order store is required")
	}
	adapter := &Adapter{cfg: cfg, currency: strings.ToLower(currency), store: store}
	if strings.TrimSpace(cfg.SecretKey) != "" {
		client := stripe.NewClient(cfg.SecretKey)
		adapter.intents = client.V1PaymentIntents
	}
	return adapter, nil
}

func (a *Adapter) Method() types.PaymentMethod {
	return types.PaymentGatewayCard
}

func (a *Adapter) Preflight() error {
	if !a.cfg.Enabled || a.intents == nil {
		return pkgerrors.New(pkgerrors.CodeGatewayConfig, "stripe is not enabled for this store")
	}
	return nil
}

// Attempt creates the payment intent for the persisted order and returns
// its client secret. The intent carries the store and order ids so the
// confirmation step can verify the match.
func (a *Adapter) Attempt(ctx context.Context, order *orders.Order, _ types.CheckoutData) (payments.Outcome, error) {
	if err := a.Preflight(); err != nil {
		return payments.Outcome{}, err
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(toSmallestUnit(order.Total, a.currency)),
		Currency: stripe.String(a.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("storeId", order.StoreID)
	params.AddMetadata("orderId", order.ID)
	params.AddMetadata("orderNumber", order.OrderNumber)
	if order.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(order.Customer.Email)
	}

	intent, err := a.intents.Create(ctx, params)
	if err != nil {
		return payments.Outcome{}, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create payment intent")
	}
	return payments.CollectCard(intent.ClientSecret), nil
}

// Confirm retrieves the intent after the buyer submitted the card form
// and settles the order. Succeeded marks it paid and confirmed;
// processing is accepted with the order left pending.
func (a *Adapter) Confirm(ctx context.Context, storeID, orderID, intentID string) (payments.Outcome, error) {
	if a.intents == nil {
		return payments.Outcome{}, pkgerrors.New(pkgerrors.CodeGatewayConfig, "stripe is not enabled for this store")
	}
	if strings.TrimSpace(intentID) == "" {
		return payments.Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	intent, err := a.intents.Retrieve(ctx, intentID, nil)
	if err != nil {
		return payments.Outcome{}, pkgerrors.Wrap(pkgerrors.CodePayment, err, "retrieve payment intent")
	}
	if intent.Metadata["storeId"] != storeID || intent.Metadata["orderId"] != orderID {
		return payments.Outcome{}, pkgerrors.New(pkgerrors.CodeConflict, "payment intent does not belong to this order")
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := a.store.UpdatePayment(ctx, storeID, orderID, orders.PaymentPaid, orders.StatusConfirmed, intent.ID); err != nil {
			return payments.Outcome{}, err
		}
		return payments.Confirmed(intent.ID, string(intent.Status)), nil
	case stripe.PaymentIntentStatusProcessing:
		return payments.Confirmed(intent.ID, string(intent.Status)), nil
	default:
		return payments.Outcome{}, pkgerrors.New(pkgerrors.CodePayment,
			"payment not completed: "+string(intent.Status))
	}
}

// toSmallestUnit converts a decimal amount to Stripe's integer unit for
// the currency.
func toSmallestUnit(amount decimal.Decimal, currency string) int64 {
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currency)]; ok {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
