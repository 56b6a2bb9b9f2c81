package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
)

// handleError translates service errors into HTTP responses.
//
// Cancellation and deadline causes are checked before the HTTPError
// mapping: a superseded or timed-out save reaches here wrapped in a
// SaveError, and the wrapper's status must not hide the real cause.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// A newer save for the same collection superseded this one
		httputil.RespondError(w, http.StatusConflict, "superseded by a newer save, reload and retry")
		return
	case errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusGatewayTimeout, "save timed out, please retry")
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
