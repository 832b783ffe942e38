package whatsapp

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
)

func testOrder() *orders.Order {
	shipping := decimal.NewFromInt(5)
	return &orders.Order{
		ID:          "ord-1",
		OrderNumber: "ORD-007",
		Draft: orders.Draft{
			StoreID: "store-1",
			Items: []orders.Item{
				{
					ProductID:   "p1",
					ProductName: "Ceviche Mixto",
					Price:       decimal.NewFromInt(40),
					Quantity:    2,
					ItemTotal:   decimal.NewFromInt(90),
					SelectedModifiers: []orders.Modifier{
						{GroupName: "Extras", Options: []orders.ModifierOption{
							{Name: "Extra Camote", Price: decimal.NewFromInt(5)},
						}},
					},
				},
				{
					ProductID:   "p2",
					ProductName: "Chicha Morada",
					Price:       decimal.NewFromInt(8),
					Quantity:    1,
					ItemTotal:   decimal.NewFromInt(8),
					SelectedVariations: []orders.Variation{
						{Name: "Tamaño", Value: "Grande"},
					},
				},
			},
			Customer:       types.Customer{Name: "Ana Torres", Phone: "+51 999 888 777"},
			DeliveryMethod: types.DeliveryDelivery,
			DeliveryAddress: &types.DeliveryAddress{
				Street: "Av. Larco 123",
				City:   "Lima",
			},
			Subtotal:      decimal.NewFromInt(98),
			ShippingCost:  &shipping,
			Total:         decimal.NewFromInt(103),
			PaymentMethod: types.PaymentWhatsApp,
			PaymentStatus: orders.PaymentPending,
			Status:        orders.StatusPending,
		},
	}
}

func TestAttemptBuildsLink(t *testing.T) {
	t.Parallel()

	adapter := NewAdapter(config.StoreConfig{
		Currency: "PEN",
		Language: "es",
		WhatsApp: "+51 987 654 321",
	})

	outcome, err := adapter.Attempt(context.Background(), testOrder(), types.CheckoutData{})
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if outcome.Kind != payments.KindPendingManualAction {
		t.Fatalf("Attempt() kind = %q, want %q", outcome.Kind, payments.KindPendingManualAction)
	}

	parsed, err := url.Parse(outcome.ActionURL)
	if err != nil {
		t.Fatalf("Attempt() link unparseable: %v", err)
	}
	if parsed.Host != "wa.me" {
		t.Errorf("link host = %q, want %q", parsed.Host, "wa.me")
	}
	if parsed.Path != "/51987654321" {
		t.Errorf("link path = %q, want digits-only phone", parsed.Path)
	}

	text := parsed.Query().Get("text")
	for _, want := range []string{
		"ORD-007",
		"Ana Torres",
		"2x Ceviche Mixto - S/90.00",
		"+ Extra Camote (+S/5.00)",
		"(Tamaño: Grande)",
		"Envío: S/5.00",
		"*Total: S/103.00*",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q\nmessage:\n%s", want, text)
		}
	}
}

func TestAttemptMissingPhone(t *testing.T) {
	t.Parallel()

	adapter := NewAdapter(config.StoreConfig{Currency: "PEN"})
	_, err := adapter.Attempt(context.Background(), testOrder(), types.CheckoutData{})
	if err == nil {
		t.Fatal("Attempt() error = nil, want gateway config error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeGatewayConfig {
		t.Errorf("Attempt() error = %v, want code %q", err, pkgerrors.CodeGatewayConfig)
	}
}

func TestBuildMessageEnglishPickup(t *testing.T) {
	t.Parallel()

	order := testOrder()
	order.DeliveryMethod = types.DeliveryPickup
	order.DeliveryAddress = nil
	order.ShippingCost = nil
	order.Notes = "No onions please"

	msg := BuildMessage(order, "USD", "en", "food")
	for _, want := range []string{
		"*New Order ORD-007*",
		"Store pickup",
		"*Items:*",
		"2x Ceviche Mixto - $90.00",
		"*Notes:* No onions please",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q\nmessage:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Subtotal") {
		t.Error("message should omit subtotal when there is no shipping cost")
	}
}
