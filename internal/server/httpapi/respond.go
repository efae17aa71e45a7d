package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamtube/streamtube/internal/common"
)

// envelope is the uniform response body. Failures carry no data field.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Message: message})
}

// writeMappedError translates the service error taxonomy to HTTP statuses.
// Every credential and token failure collapses into the same 401 body so the
// response leaks nothing about which check failed.
func (a *API) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, "account with this username or email already exists")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrTokenMalformed),
		errors.Is(err, common.ErrTokenBadSignature),
		errors.Is(err, common.ErrTokenExpired):
		a.logger.Debug(r.Context(), "request unauthorized", "path", r.URL.Path, "reason", err.Error())
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrUpstreamUnavailable):
		a.logger.Error(r.Context(), "upstream failure", "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusBadGateway, "upstream service unavailable")
	default:
		a.logger.Error(r.Context(), "internal error", "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
