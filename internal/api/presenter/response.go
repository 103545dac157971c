package presenter

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/yggdrasil"
)

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

// Error writes an error body the way the authentication server does.
func Error(w http.ResponseWriter, r *http.Request, errType, msg string, status int) {
	JSON(w, r, yggdrasil.ErrorResponse{
		Error:        errType,
		ErrorMessage: msg,
	}, status)
}

func Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, yggdrasil.ForbiddenOperation, msg, http.StatusForbidden)
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, yggdrasil.IllegalArgument, msg, http.StatusBadRequest)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
