package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/service"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/health"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/middleware"
)

// RouterConfig holds the dependencies of the catalog router. A nil
// RateLimiter disables write throttling; a nil MetricsHandler serves the
// default Prometheus registry.
type RouterConfig struct {
	ServiceName    string
	ProductService *service.ProductService
	ReviewService  *service.ReviewService
	Health         *health.Handler
	ValidateToken  middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	CORS           middleware.CORSConfig
	PprofCIDRs     []string
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	logger := cfg.Logger

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Operational endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	metrics := cfg.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Handle("/metrics", metrics)
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	productHandler := NewProductHandler(cfg.ProductService, logger)
	reviewHandler := NewReviewHandler(cfg.ReviewService, logger)

	authenticated := func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		r.Use(middleware.Auth(cfg.ValidateToken))
		r.Use(middleware.RequestLogger(logger))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/recommended", productHandler.ListRecommended)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{id}/reviews", reviewHandler.ListReviews)

		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleVendor))
				r.Post("/", productHandler.CreateProduct)
				r.Put("/{id}", productHandler.UpdateProduct)
				r.Delete("/{id}", productHandler.DeleteProduct)
			})

			r.With(middleware.RequireRole(domain.RoleCustomer)).
				Post("/{id}/reviews", reviewHandler.CreateReview)
		})
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		authenticated(r)
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Put("/{id}", productHandler.AdminUpdateProduct)
		r.Delete("/{id}", productHandler.AdminDeleteProduct)
	})

	return r
}
