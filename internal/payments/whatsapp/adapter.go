// Package whatsapp completes checkout by handing the buyer a prefilled
// wa.me conversation link with the itemized order.
package whatsapp

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

type Adapter struct {
	store config.StoreConfig
}

func NewAdapter(store config.StoreConfig) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) Method() types.PaymentMethod {
	return types.PaymentWhatsApp
}

func (a *Adapter) Preflight() error {
	if digitsOnly(a.store.WhatsApp) == "" {
		return pkgerrors.New(pkgerrors.CodeGatewayConfig, "store has no whatsapp number configured")
	}
	return nil
}

// Attempt builds the wa.me link for the order. The buyer sends the message
// themselves, so the order stays pending until the store confirms it.
func (a *Adapter) Attempt(ctx context.Context, order *orders.Order, _ types.CheckoutData) (payments.Outcome, error) {
	if err := a.Preflight(); err != nil {
		return payments.Outcome{}, err
	}
	phone := digitsOnly(a.store.WhatsApp)

	message := BuildMessage(order, a.store.Currency, a.store.Language, a.store.BusinessType)
	link := "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
	return payments.ManualAction(link, nil), nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
