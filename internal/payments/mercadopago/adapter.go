package mercadopago

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// markerStore records the redirect return marker so the success/failure
// return handlers can match the buyer back to their order.
type markerStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PendingOrderKey(storeID, orderID string) string
}

// RedirectAdapter hands the buyer off to hosted Checkout Pro.
type RedirectAdapter struct {
	api       API
	cfg       config.MercadoPagoConfig
	store     config.StoreConfig
	markers   markerStore
	markerTTL time.Duration
	log       *logger.Logger
}

type pendingMarker struct {
	OrderID      string    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	PreferenceID string    `json:"preferenceId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewRedirectAdapter(api API, cfg config.MercadoPagoConfig, store config.StoreConfig, markers markerStore, markerTTL time.Duration, log *logger.Logger) (*RedirectAdapter, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mercadopago api is required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &RedirectAdapter{api: api, cfg: cfg, store: store, markers: markers, markerTTL: markerTTL, log: log}, nil
}

func (a *RedirectAdapter) Method() types.PaymentMethod {
	return types.PaymentGatewayRedirect
}

func (a *RedirectAdapter) Preflight() error {
	if !a.cfg.Enabled {
		return pkgerrors.New(pkgerrors.CodeGatewayConfig, "mercadopago is not enabled for this store")
	}
	return nil
}

// Attempt creates a preference for the order and resolves the redirect
// entry point. In sandbox mode the sandbox init point wins when present.
func (a *RedirectAdapter) Attempt(ctx context.Context, order *orders.Order, _ types.CheckoutData) (payments.Outcome, error) {
	if err := a.Preflight(); err != nil {
		return payments.Outcome{}, err
	}

	result, err := a.api.CreatePreference(ctx, BuildPreference(order, a.store))
	if err != nil {
		return payments.Outcome{}, err
	}

	point := result.InitPoint
	if a.cfg.Sandbox && result.SandboxInitPoint != "" {
		point = result.SandboxInitPoint
	}

	a.recordMarker(ctx, order, result.ID)
	return payments.Redirect(point), nil
}

// recordMarker is best effort; a lost marker degrades the return page,
// not the payment.
func (a *RedirectAdapter) recordMarker(ctx context.Context, order *orders.Order, preferenceID string) {
	if a.markers == nil {
		return
	}
	marker := pendingMarker{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		PreferenceID: preferenceID,
		CreatedAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(marker)
	if err != nil {
		return
	}
	key := a.markers.PendingOrderKey(order.StoreID, order.ID)
	if err := a.markers.Set(ctx, key, payload, a.markerTTL); err != nil {
		a.log.Error(a.log.WithOrderID(ctx, order.ID), "pending order marker not stored", err)
	}
}
