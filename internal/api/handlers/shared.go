package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// respondError sends a standard error payload with the given status code
func respondError(w http.ResponseWriter, status int, message string, err error) {
	payload := map[string]string{"error": message}
	if err != nil {
		payload["detail"] = err.Error()
	}
	respondJSON(w, status, payload)
}
