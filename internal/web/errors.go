package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request id, then
// shown to the client as a core.UserMessage: JSON for API callers, an alert
// fragment for HTMX, otherwise the full page re-rendered with the alert and
// the session state the user already had.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/JonMunkholm/distsort/internal/logging"
	"github.com/JonMunkholm/distsort/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for an error.
func statusFor(err error) int {
	var le *core.LoadError
	var re *core.ResolutionError
	var mbe *http.MaxBytesError

	switch {
	case errors.As(err, &mbe), core.IsLoadError(err, core.LoadTooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsLoadError(err, core.LoadUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &le), errors.As(err, &re):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUnknownColumn), errors.Is(err, core.ErrFeatureDisabled):
		return http.StatusBadRequest
	case core.IsWarning(err):
		return http.StatusOK
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNoTable), errors.Is(err, core.ErrNoResult):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and renders it in the format the client expects.
// sess may be nil when the session itself could not be found.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, sess *core.Session, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	warning := core.IsWarning(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	switch {
	case warning:
		logger.Info("request warning", attrs...)
	case status >= http.StatusInternalServerError:
		logger.Error("request error", attrs...)
	default:
		logger.Warn("request error", attrs...)
	}

	alert := templates.NewAlert(userMsg, warning)
	switch {
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, status)
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := templates.AlertBox(alert).Render(r.Context(), w); err != nil {
			logger.Error("render alert", "error", err)
		}
	case sess != nil:
		s.renderPage(w, r, sess, alert, status)
	default:
		respondErrorHTML(w, r, userMsg, status)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain HTML error response.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
