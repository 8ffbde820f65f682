package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
)

// SettingHandler handles settings-related HTTP requests
type SettingHandler struct {
	settingRepo *repository.SettingRepository
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingRepo *repository.SettingRepository) *SettingHandler {
	return &SettingHandler{settingRepo: settingRepo}
}

// SettingResponse represents a setting value
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateSettingRequest is the payload for PUT /api/settings/{key}. Secret
// values are encrypted at rest.
type UpdateSettingRequest struct {
	Value  string `json:"value"`
	Secret bool   `json:"secret,omitempty"`
}

// Get retrieves a setting value by key. Encrypted settings are decrypted
// before being returned.
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.settingRepo.Get(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSettingNotFound):
			respondError(w, http.StatusNotFound, "Setting not found", err)
		case errors.Is(err, apperrors.ErrMissingFernetKey):
			respondError(w, http.StatusInternalServerError, "Settings encryption key not configured", err)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to load setting", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, SettingResponse{Key: key, Value: value})
}

// Update stores a setting value, encrypting it first when marked secret.
func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	if req.Secret {
		err = h.settingRepo.SetSecret(r.Context(), key, req.Value)
	} else {
		err = h.settingRepo.Set(r.Context(), key, req.Value)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingFernetKey) {
			respondError(w, http.StatusInternalServerError, "Settings encryption key not configured", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to store setting", err)
		return
	}
	respondJSON(w, http.StatusOK, SettingResponse{Key: key, Value: req.Value})
}
