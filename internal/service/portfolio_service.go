package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/ledger"
	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
)

// PortfolioService builds and values current positions from the stored
// transaction stream. The fold itself lives in the ledger package; this
// service supplies the inputs and attaches latest prices.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	securityRepo    *repository.SecurityRepository
	priceRepo       *repository.PriceRepository
	logger          zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	securityRepo *repository.SecurityRepository,
	priceRepo *repository.PriceRepository,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		securityRepo:    securityRepo,
		priceRepo:       priceRepo,
		logger:          logger,
	}
}

// GetPositions folds the full transaction stream into positions and values
// each against its latest stored close. Rejected events (oversell, bad split
// ratio) are logged as warnings and never abort the build; positions without
// price history are returned unvalued.
func (s *PortfolioService) GetPositions(ctx context.Context) ([]model.Position, error) {
	transactions, err := s.transactionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	positions, buildErr := ledger.BuildPositions(transactions)
	if buildErr != nil {
		s.logger.Warn().Err(buildErr).Msg("rejected events while building positions")
	}

	valued := make([]model.Position, len(positions))
	for i, position := range positions {
		valued[i] = s.value(ctx, position)
	}
	return valued, nil
}

// GetPosition returns the valued position for one (instrument, currency) pair.
// Returns apperrors.ErrPositionNotFound when the pair never held shares.
func (s *PortfolioService) GetPosition(ctx context.Context, instrumentKey, currency string) (model.Position, error) {
	transactions, err := s.transactionRepo.GetByInstrument(ctx, instrumentKey, currency)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to load transactions for %s: %w", instrumentKey, err)
	}

	positions, buildErr := ledger.BuildPositions(transactions)
	if buildErr != nil {
		s.logger.Warn().Err(buildErr).Str("instrument", instrumentKey).Msg("rejected events while building position")
	}
	if len(positions) == 0 {
		return model.Position{}, fmt.Errorf("%w: %s (%s)", apperrors.ErrPositionNotFound, instrumentKey, currency)
	}
	return s.value(ctx, positions[0]), nil
}

// value attaches the latest stored close to a position. Missing catalog
// entries or price history leave the position unvalued rather than failing.
func (s *PortfolioService) value(ctx context.Context, position model.Position) model.Position {
	price, err := s.latestPrice(ctx, position.InstrumentKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPriceNotFound) && !errors.Is(err, apperrors.ErrSecurityNotFound) {
			s.logger.Warn().Err(err).Str("instrument", position.InstrumentKey).Msg("failed to value position")
		}
		return position
	}
	return ledger.ValuePosition(position, price)
}

func (s *PortfolioService) latestPrice(ctx context.Context, instrumentKey string) (float64, error) {
	security, err := s.securityRepo.GetByInstrumentKey(ctx, instrumentKey)
	if err != nil {
		return 0, err
	}
	return s.priceRepo.LatestClose(ctx, security.ProviderSymbol())
}
