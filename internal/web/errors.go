package web

// errors.go provides unified error response handling for the web layer.
//
// Clients only ever see a static message per endpoint. The technical error,
// its core.MapError code and the request ID are logged server-side so the
// two can be correlated.

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/JonMunkholm/csvexport/internal/core"
	"github.com/JonMunkholm/csvexport/internal/logging"
)

// Static client-facing messages, one per endpoint.
const (
	msgLoadData    = "Failed to load data"
	msgLoadFilters = "Failed to load filters"
	msgExport      = "Failed to export data"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// respondError logs err with its classification and answers 500 with msg.
func respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", http.StatusInternalServerError,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSONStatus(w, http.StatusInternalServerError, errorBody{Error: msg})
}

// writeJSON writes v as a 200 JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus writes v as JSON with the given status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write JSON response", "error", err)
	}
}

// clientIP returns the host part of r.RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
