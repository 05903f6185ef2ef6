package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "station-dashboard/internal/common/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]bool{"success": true})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	body, err := ReadBody(r, 64)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 65)))
	_, err = ReadBody(r, 64)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
}
