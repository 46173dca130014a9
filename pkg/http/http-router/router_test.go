package http_router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lintang-b-s/place-search/pkg/datastructure"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/metrics"
	"github.com/lintang-b-s/place-search/pkg/searcher"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptySearchService struct {
	panicOnAutocomplete bool
}

func (s emptySearchService) Autocomplete(context.Context, searcher.AutocompleteRequest) ([]datastructure.PlaceMatchWithCountry, error) {
	if s.panicOnAutocomplete {
		panic("boom")
	}
	return []datastructure.PlaceMatchWithCountry{}, nil
}

func (emptySearchService) Search(context.Context, string, int, string) ([]datastructure.PlaceMatchWithCountry, error) {
	return []datastructure.PlaceMatchWithCountry{}, nil
}

func (emptySearchService) Nearest(context.Context, float64, float64, int, string) ([]datastructure.PlaceMatchWithCountry, error) {
	return []datastructure.PlaceMatchWithCountry{}, nil
}

func (emptySearchService) PlaceByID(context.Context, int, string) (datastructure.PlaceMatchWithCountry, error) {
	return datastructure.PlaceMatchWithCountry{}, nil
}

func (emptySearchService) Countries(string) []enrich.Country {
	return []enrich.Country{}
}

func TestHandlerRoutes(t *testing.T) {
	m := metrics.New()
	handler := NewAPI(zap.NewNop()).Handler(emptySearchService{}, m)

	tests := []struct {
		name     string
		method   string
		target   string
		expected int
	}{
		{name: "heartbeat", method: http.MethodGet, target: "/healthz", expected: http.StatusOK},
		{name: "heartbeat head", method: http.MethodHead, target: "/healthz", expected: http.StatusOK},
		{name: "autocomplete", method: http.MethodGet, target: "/api/autocomplete?q=an", expected: http.StatusOK},
		{name: "countries", method: http.MethodGet, target: "/api/countries", expected: http.StatusOK},
		{name: "languages", method: http.MethodGet, target: "/api/languages", expected: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", expected: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/api/unknown", expected: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPost, target: "/api/autocomplete", expected: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.expected, rr.Code)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/autocomplete", "200")))
}

func TestEnforceJSONHandler(t *testing.T) {
	handler := NewAPI(zap.NewNop()).Handler(emptySearchService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/countries", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/countries", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecoverPanic(t *testing.T) {
	handler := NewAPI(zap.NewNop()).Handler(emptySearchService{panicOnAutocomplete: true}, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/autocomplete?q=an", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.Contains(t, rr.Body.String(), "internal_server_error")
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "10.0.0.1"}, expected: "10.0.0.1"},
		{name: "x-forwarded-for", headers: map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, expected: "10.0.0.2"},
		{name: "invalid header", headers: map[string]string{"X-Real-IP": "nope"}, expected: "192.0.2.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/places/:id", routeLabel("/api/places/42"))
	assert.Equal(t, "/api/autocomplete", routeLabel("/api/autocomplete"))
}
