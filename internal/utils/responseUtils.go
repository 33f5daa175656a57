package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"authprobe/internal/models"
)

func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// RespondSuccess writes a {"success":true} envelope.
func RespondSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, statusCode, models.APIResponse{Success: true, Message: message, Data: data})
}

// SendJSONError writes a {"success":false} envelope.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	RespondWithJSON(w, statusCode, models.APIResponse{Success: false, Message: message})
}

// SendValidationError is SendJSONError with per-field details.
func SendValidationError(w http.ResponseWriter, fieldErrors interface{}) {
	RespondWithJSON(w, http.StatusBadRequest, models.APIResponse{
		Success: false,
		Message: "validation failed",
		Errors:  fieldErrors,
	})
}
