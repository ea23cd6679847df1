package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spendtrack/spendtrack-be/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decodeBody decodes a JSON request body, answering 400 on failure. Field
// validation errors raised during decoding keep their message.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			writeMessage(w, http.StatusBadRequest, ve.Msg)
		} else {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// writeServiceError maps domain error kinds onto HTTP statuses. Store-level
// failures are logged and never leak internal detail to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, models.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "email already registered")
	default:
		log.Error().Err(err).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
