package httputil

import (
	api_models "bonsaichat-backend/internal/models"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		log.Error().Err(err).Msg("encoding JSON response")
		// Can't write header again here, just log the error
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	resp := api_models.ErrorResponse{Error: message}
	RespondJSON(w, statusCode, resp)
}

// RespondRelay writes a relay result as a {success, data} envelope.
func RespondRelay(w http.ResponseWriter, statusCode int, res api_models.RelayResponse) {
	RespondJSON(w, statusCode, NewEnvelope(res))
}

// NewEnvelope converts a relay result into its wire shape.
func NewEnvelope(res api_models.RelayResponse) api_models.Envelope {
	var (
		data []byte
		err  error
	)
	if res.OK() {
		data, err = json.Marshal(res.Success)
	} else {
		data, err = json.Marshal(api_models.FailureData{Message: res.Failure.Reason})
	}
	if err != nil {
		log.Error().Err(err).Msg("encoding envelope data")
		data = []byte(`{}`)
	}
	return api_models.Envelope{Success: res.OK(), Data: data}
}
