package mercadopago

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubMarkers struct {
	key   string
	value any
	ttl   time.Duration
}

func (s *stubMarkers) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.key, s.value, s.ttl = key, value, ttl
	return nil
}

func (s *stubMarkers) PendingOrderKey(storeID, orderID string) string {
	return "sf:pending:" + storeID + ":" + orderID
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestRedirectAdapterUsesInitPoint(t *testing.T) {
	t.Parallel()

	api := &stubAPI{prefResult: &PreferenceResult{
		ID:               "pref-1",
		InitPoint:        "https://www.mercadopago.com/init",
		SandboxInitPoint: "https://sandbox.mercadopago.com/init",
	}}
	markers := &stubMarkers{}
	adapter, err := NewRedirectAdapter(api,
		config.MercadoPagoConfig{Enabled: true},
		config.StoreConfig{Currency: "PEN", Origin: "https://tienda.shopifree.app"},
		markers, time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewRedirectAdapter() error = %v", err)
	}

	order := cardOrder()
	outcome, err := adapter.Attempt(context.Background(), order, types.CheckoutData{})
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if outcome.Kind != payments.KindRedirect {
		t.Errorf("Attempt() kind = %q, want %q", outcome.Kind, payments.KindRedirect)
	}
	if outcome.RedirectURL != "https://www.mercadopago.com/init" {
		t.Errorf("Attempt() url = %q, want production init point", outcome.RedirectURL)
	}

	// Unit price carries modifier surcharges: 90 total over 2 units.
	if got := api.preference.Items[0].UnitPrice; got != 45 {
		t.Errorf("preference unit price = %v, want 45", got)
	}
	if api.preference.ExternalReference != order.ID {
		t.Errorf("external reference = %q, want order id %q", api.preference.ExternalReference, order.ID)
	}
	if !strings.Contains(api.preference.BackURLs.Success, "orderNumber=ORD-004") {
		t.Errorf("success back url missing order number: %q", api.preference.BackURLs.Success)
	}
	if markers.key != "sf:pending:store-1:"+order.ID {
		t.Errorf("marker key = %q", markers.key)
	}
}

func TestRedirectAdapterSandbox(t *testing.T) {
	t.Parallel()

	api := &stubAPI{prefResult: &PreferenceResult{
		InitPoint:        "https://www.mercadopago.com/init",
		SandboxInitPoint: "https://sandbox.mercadopago.com/init",
	}}
	adapter, _ := NewRedirectAdapter(api,
		config.MercadoPagoConfig{Enabled: true, Sandbox: true},
		config.StoreConfig{Currency: "PEN"}, nil, time.Hour, testLogger())

	outcome, err := adapter.Attempt(context.Background(), cardOrder(), types.CheckoutData{})
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if outcome.RedirectURL != "https://sandbox.mercadopago.com/init" {
		t.Errorf("Attempt() url = %q, want sandbox init point", outcome.RedirectURL)
	}
}

func TestRedirectAdapterDisabled(t *testing.T) {
	t.Parallel()

	adapter, _ := NewRedirectAdapter(&stubAPI{},
		config.MercadoPagoConfig{Enabled: false},
		config.StoreConfig{}, nil, time.Hour, testLogger())

	_, err := adapter.Attempt(context.Background(), cardOrder(), types.CheckoutData{})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeGatewayConfig {
		t.Errorf("Attempt() error = %v, want code %q", err, pkgerrors.CodeGatewayConfig)
	}
}

func TestBuildPreferenceShippingLine(t *testing.T) {
	t.Parallel()

	order := cardOrder()
	shipping := decimal.NewFromInt(10)
	order.ShippingCost = &shipping
	order.Total = decimal.NewFromInt(100)

	pref := BuildPreference(order, config.StoreConfig{Currency: "PEN", Origin: "https://x"})
	if len(pref.Items) != 2 {
		t.Fatalf("items = %d, want product plus shipping line", len(pref.Items))
	}
	last := pref.Items[len(pref.Items)-1]
	if last.UnitPrice != 10 || last.Quantity != 1 {
		t.Errorf("shipping line = %+v", last)
	}
}

func TestBuildPreferencePayerPhone(t *testing.T) {
	t.Parallel()

	order := cardOrder()
	order.Customer.Phone = ""
	payload, err := json.Marshal(BuildPreference(order, config.StoreConfig{Currency: "PEN", Origin: "https://x"}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(payload), `"phone"`) {
		t.Errorf("payer without phone serialized one: %s", payload)
	}

	order.Customer.Phone = "+51 999"
	payload, err = json.Marshal(BuildPreference(order, config.StoreConfig{Currency: "PEN", Origin: "https://x"}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(payload), `"number":"+51 999"`) {
		t.Errorf("payer phone lost: %s", payload)
	}
}
