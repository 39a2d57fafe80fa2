package ingest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookscanner/internal/httpx"
	"bookscanner/internal/platform/googlebooks"
)

func TestHTTPHandler_Add(t *testing.T) {
	f := newFixture(t)
	h := NewHTTPHandler(f.svc, zap.NewNop())
	f.lookup.On("LookupISBN", mock.Anything, "9780316769488").Return(catcher(), nil)
	f.lookup.On("LookupISBN", mock.Anything, "9780000000002").Return(nil, googlebooks.ErrNoMatch)
	f.lookup.On("LookupISBN", mock.Anything, "555").Return(nil, &googlebooks.LookupError{ISBN: "555", Err: errors.New("eof")})

	post := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(body))
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", "jti"))
		w := httptest.NewRecorder()
		h.Add(w, r)
		return w
	}

	w := post(`{"isbn":"9780316769488"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			Status  Status `json:"status"`
			Message string `json:"message"`
			Book    struct {
				Title   string   `json:"title"`
				Authors []string `json:"authors"`
			} `json:"book"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, StatusAdded, created.Data.Status)
	assert.Equal(t, "The Catcher in the Rye", created.Data.Book.Title)
	assert.Contains(t, created.Data.Message, "was added to your collection")

	w = post(`{"isbn":"9780316769488"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"DUPLICATE"`)

	w = post(`{"isbn":"9780000000002"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No book found with this ISBN")

	w = post(`{"isbn":"555"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "eof", "internal reasons stay in the logs")

	assert.Equal(t, http.StatusBadRequest, post(`{"isbn":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`not json`).Code)
}

func TestHTTPHandler_History(t *testing.T) {
	f := newFixture(t)
	h := NewHTTPHandler(f.svc, zap.NewNop())
	f.lookup.On("LookupISBN", mock.Anything, "123").Return(catcher(), nil)
	f.svc.Ingest(t.Context(), "u-1", "123", SourceManual)

	get := func(url string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, url, nil)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", "jti"))
		w := httptest.NewRecorder()
		h.History(w, r)
		return w
	}

	w := get("/v1/library/history")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ADDED"`)
	assert.Contains(t, w.Body.String(), `"source":"MANUAL"`)

	assert.Equal(t, http.StatusBadRequest, get("/v1/library/history?limit=-1").Code)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusCreated, StatusCode(StatusAdded))
	assert.Equal(t, http.StatusConflict, StatusCode(StatusDuplicate))
	assert.Equal(t, http.StatusNotFound, StatusCode(StatusNotFound))
	assert.Equal(t, http.StatusBadGateway, StatusCode(StatusLookupFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(StatusFailed))
}
