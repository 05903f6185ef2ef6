package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "station-dashboard/internal/common/errors"
)

const DefaultBodyLimit = 1 << 20

// WriteJSON writes v with status. Encoding errors are ignored once the header is sent.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ReadBody reads at most limit bytes. A larger body is a VALIDATION_FAILED error.
func ReadBody(r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Request body exceeds %d bytes", limit))
		}
		return nil, apperrors.NewValidationError("Failed to read request body")
	}
	return body, nil
}
