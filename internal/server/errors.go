package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/tastemaker/internal/shared"
)

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps an error to its HTTP status: client input errors are 4xx, everything else is 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrMissingCode),
		errors.Is(err, shared.ErrInvalidState),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err with the request's logger and writes a generic message.
//
// Client errors carry the sentinel's text; server errors carry only msg so upstream detail never leaks.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := StatusFor(err)
	logger := LoggerFrom(r.Context())

	body := errorBody{Error: msg}
	if status < http.StatusInternalServerError {
		logger.Warn("request rejected", "status", status, "error", err)
		body.Error = clientMessage(err, msg)
	} else {
		logger.Error("request failed", "status", status, "error", err)
	}

	writeJSON(w, status, body)
}

func clientMessage(err error, fallback string) string {
	for _, sentinel := range []error{
		shared.ErrMissingToken,
		shared.ErrMissingCode,
		shared.ErrInvalidState,
		shared.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
