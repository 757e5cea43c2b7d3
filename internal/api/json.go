package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/conduitapp/conduit/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// errResponse is the OpenAI-style error envelope used on every route.
type errResponse struct {
	Error errDetail `json:"error"`
}

type errDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func errorBody(msg, kind string) errResponse {
	return errResponse{Error: errDetail{Message: msg, Type: kind}}
}

// writeError maps an internal failure to exactly one status and error
// body. Raw storage detail stays in the logs, never in the response.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), "invalid_request_error"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found", "not_found_error"))
	case errors.Is(err, apperr.ErrDecode):
		// The record exists but cannot be read; to the caller it is
		// indistinguishable from an absent record.
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("not found", "not_found_error"))
	case errors.Is(err, apperr.ErrInferenceUnavailable):
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("inference backend unavailable", "upstream_error"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", "internal_error"))
	}
}
