package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(logger *zerolog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(logger *zerolog.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(logger, w, status, errorResponse{Error: message})
}

func writeValidationErrors(logger *zerolog.Logger, w http.ResponseWriter, messages []string) {
	writeJSON(logger, w, http.StatusUnprocessableEntity, errorResponse{
		Error:   "validation failed",
		Details: messages,
	})
}

// writeInternalError logs the full error server-side and reports a generic
// message to the caller.
func writeInternalError(logger *zerolog.Logger, w http.ResponseWriter, err error, msg string) {
	logger.Error().Err(err).Msg(msg)
	writeError(logger, w, http.StatusInternalServerError, "something went wrong")
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
