package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers"
	cartsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	checkoutsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/mercadopago"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, sessionID string) (*cartsvc.State, error) {
	return &cartsvc.State{}, nil
}

func (stubCartService) Add(ctx context.Context, sessionID string, product cartsvc.Product, extras *cartsvc.Extras) (*cartsvc.State, error) {
	return &cartsvc.State{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*cartsvc.State, error) {
	return &cartsvc.State{}, nil
}

func (stubCartService) Remove(ctx context.Context, sessionID, lineID string) (*cartsvc.State, error) {
	return &cartsvc.State{}, nil
}

func (stubCartService) Clear(ctx context.Context, sessionID string) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Start(ctx context.Context, cartSessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: "chk-1", Step: checkoutsvc.StepCustomer}, nil
}

func (stubCheckoutService) Get(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID, Step: checkoutsvc.StepCustomer}, nil
}

func (stubCheckoutService) UpdateData(ctx context.Context, sessionID string, updates types.CheckoutData) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) Next(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) Back(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) SubmitPayment(ctx context.Context, sessionID string, method types.PaymentMethod) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) BrickReady(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) BrickError(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) BrickSubmit(ctx context.Context, sessionID string, form mercadopago.FormData) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func (stubCheckoutService) ConfirmCard(ctx context.Context, sessionID, intentID string) (*checkoutsvc.Session, error) {
	return &checkoutsvc.Session{ID: sessionID}, nil
}

func testRouter(pingers map[string]controllers.Pinger) http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Store.ID = "store-1"
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
	return NewRouter(cfg, logg, pingers, stubCartService{}, stubCheckoutService{})
}

func TestRouterHealthLive(t *testing.T) {
	t.Parallel()

	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Shopifree-Env"); env != "test" {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestRouterHealthReadyFailingDependency(t *testing.T) {
	t.Parallel()

	router := testRouter(map[string]controllers.Pinger{
		"redis": stubPinger{err: fmt.Errorf("connection refused")},
	})
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	t.Parallel()

	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterAPIRequiresSessionHeader(t *testing.T) {
	t.Parallel()

	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRouterCartRouteWired(t *testing.T) {
	t.Parallel()

	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "totalItems") {
		t.Fatalf("cart payload missing totals: %s", resp.Body.String())
	}
}

func TestRouterCheckoutRouteWired(t *testing.T) {
	t.Parallel()

	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/checkout-missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "chk-1") {
		t.Fatalf("checkout payload missing session id: %s", resp.Body.String())
	}
}
