package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaylife/storefront-api/api/controllers"
	"github.com/jaylife/storefront-api/api/middleware"
	"github.com/jaylife/storefront-api/internal/cart"
	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/logger"
)

// NewRouter wires the cart gateway endpoints, health checks, and metrics.
// Entries in readiness with a nil pinger are skipped.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cartService cart.Service,
	readiness map[string]controllers.Pinger,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", controllers.CartFetch(cartService, logg))
		r.Post("/", controllers.CartWrite(cartService, logg))
	})

	return r
}
