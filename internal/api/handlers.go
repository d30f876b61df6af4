package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/service"
)

// userID resolves the user id from the query string, falling back to the
// single-user default account.
func userID(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	return service.DefaultUserID
}

// writeServiceError translates domain errors to the failure envelope.
// Storage failures are logged with full detail but clients only see the
// cause in development mode; raw filesystem paths never leave the process
// in production.
func writeServiceError(w http.ResponseWriter, err error, development bool) {
	switch {
	case model.IsValidationError(err):
		respond.WriteBadRequest(w, err.Error())
	case model.IsNotFoundError(err):
		respond.WriteNotFound(w, err.Error())
	case model.IsStorageError(err):
		log.Error().Err(err).Msg("storage failure")
		if development {
			respond.WriteErrorDetails(w, http.StatusInternalServerError, "storage failure", err.Error())
			return
		}
		respond.WriteInternalError(w, "storage failure")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		respond.WriteInternalError(w, "internal error")
	}
}
