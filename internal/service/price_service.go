package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/yahoo"
)

// PriceService keeps the stored price history current: recent closes on the
// daily schedule, full backfills on demand. Fetches for different securities
// are independent and fan out across a bounded worker group.
type PriceService struct {
	client       *yahoo.FinanceClient
	priceRepo    *repository.PriceRepository
	securityRepo *repository.SecurityRepository
	logger       zerolog.Logger
}

// NewPriceService creates a new PriceService with the provided client and repositories.
func NewPriceService(
	client *yahoo.FinanceClient,
	priceRepo *repository.PriceRepository,
	securityRepo *repository.SecurityRepository,
	logger zerolog.Logger,
) *PriceService {
	return &PriceService{
		client:       client,
		priceRepo:    priceRepo,
		securityRepo: securityRepo,
		logger:       logger,
	}
}

// RefreshReport summarizes one refresh run.
type RefreshReport struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// RefreshAll fetches the most recent closes for every cataloged security.
// A failing symbol is logged and reported, never fatal to the batch.
func (s *PriceService) RefreshAll(ctx context.Context) (RefreshReport, error) {
	securities, err := s.securityRepo.GetAll(ctx)
	if err != nil {
		return RefreshReport{}, fmt.Errorf("failed to load securities: %w", err)
	}

	results := make([]error, len(securities))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for i, security := range securities {
		i, security := i, security
		group.Go(func() error {
			results[i] = s.refreshOne(groupCtx, security)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return RefreshReport{}, err
	}

	var report RefreshReport
	for i, err := range results {
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", securities[i].ProviderSymbol()).Msg("price refresh failed")
			report.Failed = append(report.Failed, securities[i].InstrumentKey())
			continue
		}
		report.Updated++
	}
	return report, nil
}

// Backfill fetches and stores the full daily history for one security
// between two dates, used when a new instrument enters the catalog.
func (s *PriceService) Backfill(ctx context.Context, instrumentKey string, startDate, endDate time.Time) error {
	security, err := s.securityRepo.GetByInstrumentKey(ctx, instrumentKey)
	if err != nil {
		return err
	}
	symbol := security.ProviderSymbol()

	response, err := s.client.QueryDateRange(symbol, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	return s.store(ctx, symbol, response)
}

func (s *PriceService) refreshOne(ctx context.Context, security model.Security) error {
	symbol := security.ProviderSymbol()
	response, err := s.client.QueryRecent(symbol)
	if err != nil {
		return err
	}
	return s.store(ctx, symbol, response)
}

func (s *PriceService) store(ctx context.Context, symbol string, response yahoo.Response) error {
	chart, err := s.client.ParseChart(response)
	if err != nil {
		return fmt.Errorf("failed to parse chart for %s: %w", symbol, err)
	}

	records := make([]model.PriceRecord, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		if ind.PriceClose == 0 {
			continue // non-trading day filler
		}
		records = append(records, model.PriceRecord{
			Date:   ind.Date,
			Close:  ind.PriceClose,
			Open:   ind.PriceOpen,
			High:   ind.PriceHigh,
			Low:    ind.PriceLow,
			Volume: float64(ind.Volume),
		})
	}
	return s.priceRepo.Upsert(ctx, symbol, "yahoo", records)
}
