package router_helper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouteGroupPath(t *testing.T) {
	router := httprouter.New()
	tests := []struct {
		name     string
		group    *RouteGroup
		path     string
		expected string
	}{
		{name: "api", group: NewRouteGroup(router, "/api"), path: "/search", expected: "/api/search"},
		{name: "missing slashes", group: NewRouteGroup(router, "api/"), path: "search", expected: "/api/search"},
		{name: "nested", group: NewRouteGroup(router, "/api").Group("/v1"), path: "/places/:id", expected: "/api/v1/places/:id"},
		{name: "root group", group: NewRouteGroup(router, "/"), path: "/healthz", expected: "/healthz"},
		{name: "group root", group: NewRouteGroup(router, "/api"), path: "/", expected: "/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.group.Path(tt.path))
		})
	}
}

func TestRouteGroupServes(t *testing.T) {
	router := httprouter.New()
	group := NewRouteGroup(router, "/api")
	group.GET("/places/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		_, _ = w.Write([]byte(ps.ByName("id")))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/places/7", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7", rr.Body.String())
}
