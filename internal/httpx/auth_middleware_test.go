package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) Verify(_ context.Context, token string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return s.userID, "jti-" + token, nil
}

func TestAuthMiddleware(t *testing.T) {
	var gotUser, gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFrom(r)
		gotToken = TokenIDFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		verifier   TokenVerifier
		wantStatus int
		wantUser   string
	}{
		{"missing header", "", stubVerifier{userID: "u1"}, http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", stubVerifier{userID: "u1"}, http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer   ", stubVerifier{userID: "u1"}, http.StatusUnauthorized, ""},
		{"rejected", "Bearer tok", stubVerifier{err: errors.New("revoked")}, http.StatusUnauthorized, ""},
		{"valid", "Bearer tok", stubVerifier{userID: "u1"}, http.StatusOK, "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotToken = "", ""
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(tt.verifier)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantUser != "" {
				assert.Equal(t, "jti-tok", gotToken)
			}
		})
	}
}
