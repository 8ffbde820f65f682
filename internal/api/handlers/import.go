package handlers

import (
	"net/http"

	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
)

// ImportHandler handles CSV import HTTP requests
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Import runs a full import of the per-currency CSV files from the configured
// data directory and returns the import report, including skipped rows.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	report, err := h.importService.ImportAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Import failed", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
