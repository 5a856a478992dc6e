package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
)

type errorResponse struct {
	Error     string        `json:"error"`
	Conflicts []entry.Entry `json:"conflicts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps controller and validation errors to status codes.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	var conflict *controller.ConflictError
	var validation *entry.ValidationError

	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Conflicts: conflict.Conflicts})
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, controller.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, controller.ErrRetractUnsupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		log.Error("request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
