package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers"
	cartcontrollers "github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers/cart"
	checkoutcontrollers "github.com/GiacomoGonzales/shopifree-v2-sub002/api/controllers/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/api/middleware"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	checkoutsvc "github.com/GiacomoGonzales/shopifree-v2-sub002/internal/checkout"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	r.Handle("/metrics", promhttp.Handler())

	checkoutHandlers := checkoutcontrollers.NewHandlers(checkoutService, cfg.MP, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StoreContext(cfg.Store, logg))
		r.Use(middleware.SessionContext(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, logg))
			r.Patch("/items/{lineId}", cartcontrollers.UpdateQuantity(cartService, logg))
			r.Delete("/items/{lineId}", cartcontrollers.RemoveItem(cartService, logg))
		})

		r.Route("/checkout/sessions", func(r chi.Router) {
			r.Post("/", checkoutHandlers.Start)
			r.Route("/{checkoutId}", func(r chi.Router) {
				r.Get("/", checkoutHandlers.Get)
				r.Patch("/data", checkoutHandlers.UpdateData)
				r.Post("/next", checkoutHandlers.Next)
				r.Post("/back", checkoutHandlers.Back)
				r.Post("/payment", checkoutHandlers.SubmitPayment)
				r.Post("/brick/ready", checkoutHandlers.BrickReady)
				r.Post("/brick/error", checkoutHandlers.BrickError)
				r.Post("/brick/submit", checkoutHandlers.BrickSubmit)
				r.Post("/stripe/confirm", checkoutHandlers.ConfirmCard)
			})
		})
	})

	return r
}
