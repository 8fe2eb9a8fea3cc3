// Package handlers implements the HTTP command surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"listkeeper/logging"
)

// writeJSON encodes body with the given status.
func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
