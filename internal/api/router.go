package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mvanetten/stock-portfolio-analytics/internal/api/handlers"
	custommiddleware "github.com/mvanetten/stock-portfolio-analytics/internal/api/middleware"
	"github.com/mvanetten/stock-portfolio-analytics/internal/config"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	System          *service.SystemService
	Portfolio       *service.PortfolioService
	Metrics         *service.MetricsService
	Import          *service.ImportService
	Prices          *service.PriceService
	TransactionRepo *repository.TransactionRepository
	SettingRepo     *repository.SettingRepository
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(services.Portfolio, services.Metrics)
			r.Get("/", positionHandler.Positions)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", positionHandler.Position)
				r.Get("/metrics", positionHandler.Metrics)
				r.Get("/dividends", positionHandler.Dividends)
				r.Get("/chart", positionHandler.Chart)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.TransactionRepo)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.Create)
		})

		importHandler := handlers.NewImportHandler(services.Import)
		r.Post("/import", importHandler.Import)

		priceHandler := handlers.NewPriceHandler(services.Prices)
		r.Post("/prices/refresh", priceHandler.Refresh)

		r.Route("/settings", func(r chi.Router) {
			settingHandler := handlers.NewSettingHandler(services.SettingRepo)
			r.Get("/{key}", settingHandler.Get)
			r.Put("/{key}", settingHandler.Update)
		})
	})

	return r
}
