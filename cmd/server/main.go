package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mvanetten/stock-portfolio-analytics/internal/api"
	"github.com/mvanetten/stock-portfolio-analytics/internal/config"
	"github.com/mvanetten/stock-portfolio-analytics/internal/database"
	"github.com/mvanetten/stock-portfolio-analytics/internal/logging"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
	"github.com/mvanetten/stock-portfolio-analytics/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.Logging)
	logging.SetGlobal(logger)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingRepo, err := repository.NewSettingRepository(db, cfg.Prices.FernetKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize settings repository")
	}

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(transactionRepo, securityRepo, priceRepo, logger)
	metricsService := service.NewMetricsService(transactionRepo, securityRepo, priceRepo, cfg.Metrics, logger)
	importService := service.NewImportService(transactionRepo, cfg.Import.DataDir, logger)

	priceClient := yahoo.NewFinanceClient(cfg.Prices.BaseURL)
	priceService := service.NewPriceService(priceClient, priceRepo, securityRepo, logger)

	// Schedule the daily price refresh
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Prices.RefreshSchedule, func() {
		report, err := priceService.RefreshAll(context.Background())
		if err != nil {
			logger.Error().Err(err).Msg("scheduled price refresh failed")
			return
		}
		logger.Info().Int("updated", report.Updated).Int("failed", len(report.Failed)).Msg("scheduled price refresh finished")
	}); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Prices.RefreshSchedule).Msg("invalid price refresh schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:          systemService,
		Portfolio:       portfolioService,
		Metrics:         metricsService,
		Import:          importService,
		Prices:          priceService,
		TransactionRepo: transactionRepo,
		SettingRepo:     settingRepo,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
