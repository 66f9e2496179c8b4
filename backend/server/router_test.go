package server

import (
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"satchel/shared/endpoints"
	"testing"
)

func recordingHandler(name string, calls *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		*calls = append(*calls, name)
		w.WriteHeader(http.StatusOK)
	}
}

func TestRouterMatching(t *testing.T) {
	var calls []string
	r := newRouter()
	r.AddRoutes([]RouteDef{
		{GET | POST, endpoints.Wallets, recordingHandler("wallets", &calls)},
		{DELETE, endpoints.Wallet, recordingHandler("wallet", &calls)},
		{POST, endpoints.WalletSync, recordingHandler("sync", &calls)},
		{GET, "/up", recordingHandler("up", &calls)},
	})

	tests := []struct {
		method   string
		path     string
		status   int
		expected string
	}{
		{http.MethodGet, "/api/v1/wallets", http.StatusOK, "wallets"},
		{http.MethodPost, "/api/v1/wallets", http.StatusOK, "wallets"},
		{http.MethodDelete, "/api/v1/wallets/abc", http.StatusOK, "wallet"},
		{http.MethodPost, "/api/v1/wallets/abc/sync", http.StatusOK, "sync"},
		{http.MethodGet, "/up", http.StatusOK, "up"},
		{http.MethodGet, "/api/v1/wallets/abc", http.StatusMethodNotAllowed, ""},
		{http.MethodDelete, "/api/v1/wallets/", http.StatusNotFound, ""},
		{http.MethodGet, "/api/v1/wallets/abc/sync/extra", http.StatusNotFound, ""},
		{http.MethodGet, "/down", http.StatusNotFound, ""},
	}

	for _, test := range tests {
		calls = nil
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(test.method, test.path, nil))

		assert.Equal(t, test.status, w.Code, "%s %s", test.method, test.path)
		if len(test.expected) > 0 {
			assert.Equal(t, []string{test.expected}, calls)
		} else {
			assert.Empty(t, calls)
		}
	}
}

func TestOptionalSegments(t *testing.T) {
	var calls []string
	r := newRouter()
	r.AddRoutes([]RouteDef{
		{GET, "/static/?", recordingHandler("static", &calls)},
	})

	for _, path := range []string{"/static", "/static/app.js"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	assert.Len(t, calls, 2)
}
