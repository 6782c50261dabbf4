package web

// errors.go turns errors into responses.
//
// The technical error is logged with the request ID; the client receives
// the mapped core.UserMessage, as JSON for API routes and as an HTML alert
// for pages.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetmerge/internal/core"
	"github.com/JonMunkholm/sheetmerge/internal/logging"
	"github.com/JonMunkholm/sheetmerge/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error    string             `json:"error"`
	Message  string             `json:"message"`
	Action   string             `json:"action,omitempty"`
	Code     string             `json:"code"`
	Failures []core.FileFailure `json:"failures,omitempty"`
}

// errBadUpload wraps multipart parsing failures.
var errBadUpload = errors.New("invalid upload form")

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadUpload):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnknownColumn), errors.Is(err, core.ErrTooManyFiles):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyInput), errors.Is(err, core.ErrEmptyColumnSet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyBatches):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondBatchError(w, r, err, nil)
}

// respondBatchError is respondError with the per-file failures of a batch
// that could not be merged.
func (s *Server) respondBatchError(w http.ResponseWriter, r *http.Request, err error, failures []core.FileFailure) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:    userMsg.Message,
			Message:  userMsg.Message,
			Action:   userMsg.Action,
			Code:     userMsg.Code,
			Failures: failures,
		})
		return
	}
	respondErrorHTML(w, r, userMsg, status)
}

// respondErrorJSON writes a JSON error without logging.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error alert", "error", err)
	}
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// Export links are followed by the browser; show them HTML errors.
	if strings.Contains(r.URL.Path, "/export/") {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
