package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
	"github.com/mvanetten/stock-portfolio-analytics/internal/validation"
)

// PositionHandler serves the computed holdings and their derived metrics.
type PositionHandler struct {
	portfolioService *service.PortfolioService
	metricsService   *service.MetricsService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(portfolioService *service.PortfolioService, metricsService *service.MetricsService) *PositionHandler {
	return &PositionHandler{
		portfolioService: portfolioService,
		metricsService:   metricsService,
	}
}

// Positions returns every position (open and closed) with current valuation.
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.GetPositions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build positions", err)
		return
	}
	respondJSON(w, http.StatusOK, positions)
}

// Position returns one valued position.
func (h *PositionHandler) Position(w http.ResponseWriter, r *http.Request) {
	key, currency, ok := h.instrumentParams(w, r)
	if !ok {
		return
	}

	position, err := h.portfolioService.GetPosition(r.Context(), key, currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			respondError(w, http.StatusNotFound, "Position not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to build position", err)
		return
	}
	respondJSON(w, http.StatusOK, position)
}

// Metrics returns the performance metrics for one instrument, including the
// change over the requested range preset (?range=, default ALL).
func (h *PositionHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	key, currency, ok := h.instrumentParams(w, r)
	if !ok {
		return
	}
	rangeName := r.URL.Query().Get("range")
	if rangeName == "" {
		rangeName = "ALL"
	}

	result, err := h.metricsService.GetMetrics(r.Context(), key, currency, rangeName)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnknownRange):
			respondError(w, http.StatusBadRequest, "Unknown range preset", err)
		case errors.Is(err, apperrors.ErrPositionNotFound), errors.Is(err, apperrors.ErrSecurityNotFound):
			respondError(w, http.StatusNotFound, "Instrument not found", err)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to compute metrics", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Dividends returns the dividend summary for one instrument.
func (h *PositionHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	key, currency, ok := h.instrumentParams(w, r)
	if !ok {
		return
	}

	summary, err := h.metricsService.GetDividends(r.Context(), key, currency)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to summarize dividends", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Chart returns the chart-ready series and trade markers for one instrument.
func (h *PositionHandler) Chart(w http.ResponseWriter, r *http.Request) {
	key, currency, ok := h.instrumentParams(w, r)
	if !ok {
		return
	}

	chart, err := h.metricsService.GetChart(r.Context(), key, currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) || errors.Is(err, apperrors.ErrSecurityNotFound) {
			respondError(w, http.StatusNotFound, "Instrument not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to build chart data", err)
		return
	}
	respondJSON(w, http.StatusOK, chart)
}

// instrumentParams extracts and validates the instrument key path parameter
// and the optional ?currency= query parameter (default USD).
func (h *PositionHandler) instrumentParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	key := chi.URLParam(r, "key")
	if err := validation.ValidateInstrumentKey(key); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid instrument key", err)
		return "", "", false
	}

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "USD"
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid currency", err)
		return "", "", false
	}
	return key, currency, true
}
