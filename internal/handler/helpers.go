package handler

import (
	"errors"
	"net/http"

	"clarity/internal/domain"
	"clarity/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Typed errors
// carry their own status via the HTTPError interface; bare wrapped
// sentinels fall back to the switch below.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrParse):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
