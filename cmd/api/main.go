package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/routes"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	checkoutsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/mercadopago"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/stripecard"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/transfer"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments/whatsapp"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/db"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/metrics"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	orderRepo, err := orders.NewRepo(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to prepare order store", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cfg.Store.ID, cartStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	sessionStore, err := checkoutsvc.NewRedisStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare session store", err)
		os.Exit(1)
	}

	adapters, brickProcessor := buildAdapters(cfg, redisClient, logg)
	stripeAdapter, err := stripecard.NewAdapter(cfg.Stripe, cfg.Store.Currency, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe adapter", err)
		os.Exit(1)
	}
	adapters = append(adapters, stripeAdapter)

	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.Deps{
		Sessions: sessionStore,
		Carts:    cartService,
		Orders:   orderRepo,
		Adapters: adapters,
		Brick:    brickProcessor,
		Cards:    stripeAdapter,
		Saved:    redisClient,
		Metrics:  paymentMetrics,
		Logger:   logg,
		Store:    cfg.Store,
		Shipping: cfg.Shipping,
		MP:       cfg.MP,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"store": cfg.Store.ID,
	})
	logg.Info(ctx, "starting api server")

	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, pingers, cartService, checkoutService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildAdapters wires the payment methods the store has configured.
// WhatsApp and transfer are always registered; their preflight rejects
// unconfigured stores.
func buildAdapters(cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) ([]payments.Adapter, checkoutsvc.BrickProcessor) {
	adapters := []payments.Adapter{
		whatsapp.NewAdapter(cfg.Store),
		transfer.NewAdapter(cfg.Bank),
	}

	if !cfg.MP.Enabled {
		return adapters, nil
	}

	mpClient, err := mercadopago.NewClient(cfg.MP)
	if err != nil {
		logg.Warn(context.Background(), "mercadopago enabled but not usable: "+err.Error())
		return adapters, nil
	}

	redirect, err := mercadopago.NewRedirectAdapter(mpClient, cfg.MP, cfg.Store, redisClient, cfg.Checkout.SessionTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mercadopago adapter", err)
		return adapters, nil
	}
	adapters = append(adapters, redirect)

	processor, err := mercadopago.NewCardProcessor(mpClient)
	if err != nil {
		return adapters, nil
	}
	return adapters, processor
}
