package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRequestID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(ContextWithRequestID(r.Context(), id))
}

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccess(w, withRequestID("req-1"), map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "value", body.Data["key"])
	assert.Equal(t, "req-1", body.Meta["request_id"])
	assert.EqualValues(t, 10, body.Meta["total"])
}

func TestJSONCreated_NoMetaWithoutRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	JSONCreated(w, httptest.NewRequest(http.MethodPost, "/", nil), map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "meta")
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{{Field: "email", Message: "email is required"}}
	JSONError(w, withRequestID("req-2"), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "Invalid input", body.Error.Message)
	assert.Equal(t, details, body.Error.Details)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		ISBN string `json:"isbn"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"isbn":"1","extra":true}`))
	assert.Error(t, DecodeJSON(r, &dst))
}
