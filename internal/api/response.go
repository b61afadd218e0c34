// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/fsclient/fsclient-go/internal/models"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithOutcome maps a provider outcome to an HTTP status and
// writes it with an optional payload.
func RespondWithOutcome(w http.ResponseWriter, outcome models.ProviderOutcome, payload interface{}) {
	code := http.StatusOK
	switch outcome {
	case models.OutcomeFailed:
		code = http.StatusBadGateway
	case models.OutcomeNeedLogin:
		code = http.StatusUnauthorized
	case models.OutcomeNotSupported:
		code = http.StatusNotImplemented
	case models.OutcomeCanceled:
		code = http.StatusRequestTimeout
	}
	body := map[string]interface{}{"outcome": outcome}
	if payload != nil {
		body["result"] = payload
	}
	RespondWithJSON(w, code, body)
}
