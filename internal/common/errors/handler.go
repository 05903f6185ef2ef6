package errors

import (
	"encoding/json"
	"net/http"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler turns handler errors into JSON responses of the form {"error": ..., "code": ...}.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

type errorBody struct {
	Error  string    `json:"error"`
	Code   ErrorCode `json:"code"`
	Status string    `json:"status,omitempty"`
}

func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	body := errorBody{Error: stdErr.Message, Code: stdErr.Code}
	if s, ok := stdErr.Metadata["status"].(string); ok && stdErr.Code == ErrCodeVerificationRequired {
		body.Status = s
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Normalize wraps foreign errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"method":    r.Method,
		"path":      r.URL.Path,
		"status":    status,
		"errorCode": stdErr.Code,
		"message":   stdErr.Message,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}
