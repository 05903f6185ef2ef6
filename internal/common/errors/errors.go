package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationNeeded ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeAuthorizationDenied  ErrorCode = "AUTHORIZATION_DENIED"
	ErrCodeVerificationRequired ErrorCode = "VERIFICATION_REQUIRED"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeTransitionNotAllowed ErrorCode = "TRANSITION_NOT_ALLOWED"
	ErrCodeStorage              ErrorCode = "STORAGE_ERROR"
	ErrCodeExternalService      ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodePartialDelivery      ErrorCode = "PARTIAL_DELIVERY"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

const AdminAccessDeniedMessage = "Access denied. You are not authorized to access the admin dashboard."

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after merging kv into its metadata.
func (e *StandardError) WithMetadata(kv map[string]interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{}, len(kv))
	}
	for k, v := range kv {
		e.Metadata[k] = v
	}
	return e
}

// HTTPStatus is the response status used for a code.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeAuthenticationNeeded:
		return http.StatusUnauthorized
	case ErrCodeAuthorizationDenied, ErrCodeVerificationRequired:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTransitionNotAllowed:
		return http.StatusConflict
	case ErrCodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// As returns the StandardError in err's chain, if any.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationNeeded,
		Message:   "Authentication required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthorizationError(message string) *StandardError {
	if message == "" {
		message = "Access denied"
	}
	return &StandardError{
		Code:      ErrCodeAuthorizationDenied,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewVerificationRequiredError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationRequired,
		Message:   "Account verification required",
		Details:   fmt.Sprintf("verification status: %s", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   id,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTransitionNotAllowedError(from, event string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransitionNotAllowed,
		Message:   fmt.Sprintf("cannot %s while verification status is %s", event, from),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": from, "event": event},
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError keeps the underlying message as the public message; callers see it verbatim.
func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   err.Error(),
		Details:   op,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("%s request failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPartialDeliveryError(sent, failed int) *StandardError {
	return &StandardError{
		Code:      ErrCodePartialDelivery,
		Message:   fmt.Sprintf("%d of %d deliveries failed", failed, sent+failed),
		Retryable: false,
		Metadata:  map[string]interface{}{"sent": sent, "failed": failed},
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
