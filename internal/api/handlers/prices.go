package handlers

import (
	"net/http"

	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
)

// PriceHandler handles price refresh HTTP requests
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// Refresh fetches the most recent closes for every cataloged security, the
// same run the daily schedule performs.
func (h *PriceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.priceService.RefreshAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Price refresh failed", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
