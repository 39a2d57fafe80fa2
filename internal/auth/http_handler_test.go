package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookscanner/internal/httpx"
)

func TestHTTPHandler_Flow(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHTTPHandler(svc, zap.NewNop())

	post := func(handler http.HandlerFunc, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	w := post(h.Register, `{"email":"reader@example.com","password":"secret1","confirm_password":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errBody httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errBody))
	assert.Equal(t, "password-mismatch", errBody.Error.Code)
	assert.Equal(t, "Passwords do not match.", errBody.Error.Message)

	w = post(h.Register, `{"email":"reader@example.com","password":"secret1","confirm_password":"secret1","username":"reader"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = post(h.Register, `{"email":"reader@example.com","password":"secret1","confirm_password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = post(h.Login, `{"email":"reader@example.com","password":"badpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password.")

	w = post(h.Login, `{"email":"reader@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ok struct {
		Data Session `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ok))
	require.NotEmpty(t, ok.Data.AccessToken)

	w = post(h.Logout, "", ok.Data.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = post(h.Logout, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(h.Login, `{bad json`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
