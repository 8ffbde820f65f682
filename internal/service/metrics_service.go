package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/config"
	"github.com/mvanetten/stock-portfolio-analytics/internal/ledger"
	"github.com/mvanetten/stock-portfolio-analytics/internal/metrics"
	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
)

// MetricsService answers the time-series questions: performance metrics,
// window returns, dividend summaries, and the chart-ready series. Engines
// are built per instrument and computations for different instruments are
// independent, so bulk recomputation fans out across a bounded worker group.
type MetricsService struct {
	transactionRepo *repository.TransactionRepository
	securityRepo    *repository.SecurityRepository
	priceRepo       *repository.PriceRepository
	cfg             metrics.Config
	logger          zerolog.Logger
}

// NewMetricsService creates a new MetricsService with the provided repository dependencies.
func NewMetricsService(
	transactionRepo *repository.TransactionRepository,
	securityRepo *repository.SecurityRepository,
	priceRepo *repository.PriceRepository,
	cfg config.MetricsConfig,
	logger zerolog.Logger,
) *MetricsService {
	return &MetricsService{
		transactionRepo: transactionRepo,
		securityRepo:    securityRepo,
		priceRepo:       priceRepo,
		cfg: metrics.Config{
			TradingDaysPerYear:  cfg.TradingDaysPerYear,
			TrailingWindowYears: cfg.TrailingWindowYears,
		},
		logger: logger,
	}
}

// InstrumentMetrics bundles everything the metrics endpoint returns for one
// instrument: the full metric set plus the change over the requested window.
type InstrumentMetrics struct {
	InstrumentKey string                     `json:"instrumentKey"`
	Currency      string                     `json:"currency"`
	Metrics       model.StockMetrics         `json:"metrics"`
	Window        metrics.WindowChangeResult `json:"window"`
}

// ChartData bundles the chart-ready series for one instrument.
type ChartData struct {
	Price        []model.ChartDataPoint   `json:"price"`
	NAV          []model.ChartDataPoint   `json:"nav"`
	Volume       []model.ChartDataPoint   `json:"volume"`
	PositionSize []model.ChartDataPoint   `json:"positionSize"`
	Events       []model.TransactionEvent `json:"events"`
}

// GetMetrics computes the metric set for one instrument as of the end of its
// price history, plus the windowed return for the named range preset.
func (s *MetricsService) GetMetrics(ctx context.Context, instrumentKey, currency, rangeName string) (InstrumentMetrics, error) {
	engine, err := s.engineFor(ctx, instrumentKey, currency)
	if err != nil {
		return InstrumentMetrics{}, err
	}

	window, err := engine.WindowChangeForRange(rangeName, time.Time{})
	if err != nil {
		return InstrumentMetrics{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownRange, rangeName)
	}

	return InstrumentMetrics{
		InstrumentKey: instrumentKey,
		Currency:      currency,
		Metrics:       engine.Metrics(time.Time{}),
		Window:        window,
	}, nil
}

// GetDividends aggregates an instrument's dividend history and trailing yield.
func (s *MetricsService) GetDividends(ctx context.Context, instrumentKey, currency string) (model.DividendSummary, error) {
	transactions, err := s.transactionRepo.GetByInstrument(ctx, instrumentKey, currency)
	if err != nil {
		return model.DividendSummary{}, fmt.Errorf("failed to load transactions for %s: %w", instrumentKey, err)
	}

	currentPrice := 0.0
	if security, err := s.securityRepo.GetByInstrumentKey(ctx, instrumentKey); err == nil {
		if close, err := s.priceRepo.LatestClose(ctx, security.ProviderSymbol()); err == nil {
			currentPrice = close
		}
	}

	return metrics.SummarizeDividends(transactions, currentPrice, time.Time{}), nil
}

// GetChart returns the price, NAV, volume, and position-size series with
// trade markers for one instrument.
func (s *MetricsService) GetChart(ctx context.Context, instrumentKey, currency string) (ChartData, error) {
	engine, err := s.engineFor(ctx, instrumentKey, currency)
	if err != nil {
		return ChartData{}, err
	}
	return ChartData{
		Price:        engine.PriceSeries(),
		NAV:          engine.NAVSeries(),
		Volume:       engine.VolumeSeries(),
		PositionSize: engine.PositionSizeSeries(),
		Events:       engine.TradeMarkers(),
	}, nil
}

// ComputeAll recomputes the metric set for every instrument that ever held
// shares. Each instrument is independent, so the work fans out across a
// bounded errgroup; one failing instrument is logged and skipped rather than
// failing the batch.
func (s *MetricsService) ComputeAll(ctx context.Context, rangeName string) ([]InstrumentMetrics, error) {
	transactions, err := s.transactionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	positions, buildErr := ledger.BuildPositions(transactions)
	if buildErr != nil {
		s.logger.Warn().Err(buildErr).Msg("rejected events while listing instruments")
	}

	var mu sync.Mutex
	results := make([]InstrumentMetrics, 0, len(positions))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, position := range positions {
		position := position
		group.Go(func() error {
			result, err := s.GetMetrics(groupCtx, position.InstrumentKey, position.Currency, rangeName)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnknownRange) {
					return err
				}
				s.logger.Warn().Err(err).Str("instrument", position.InstrumentKey).Msg("failed to compute metrics")
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// engineFor loads one instrument's inputs and builds its metrics engine.
func (s *MetricsService) engineFor(ctx context.Context, instrumentKey, currency string) (*metrics.Engine, error) {
	transactions, err := s.transactionRepo.GetByInstrument(ctx, instrumentKey, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", instrumentKey, err)
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", apperrors.ErrPositionNotFound, instrumentKey, currency)
	}

	security, err := s.securityRepo.GetByInstrumentKey(ctx, instrumentKey)
	if err != nil {
		return nil, err
	}
	prices, err := s.priceRepo.GetSeries(ctx, security.ProviderSymbol())
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", instrumentKey, err)
	}

	return metrics.NewEngine(prices, transactions, s.cfg), nil
}
