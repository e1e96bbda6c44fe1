package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/cache"
	"github.com/terra-clan/learnpath/internal/progress"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	c := NewCollector("learnpath_test")

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/v1/roadmaps/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", c.Handler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps/frontend", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/v1/roadmaps/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "learnpath_test_http_requests_total"))
}

func TestInstrumentCache(t *testing.T) {
	c := NewCollector("learnpath_test")
	ic := InstrumentCache(cache.NewMemory(0), c)
	ctx := context.Background()

	_, _, _ = ic.Get(ctx, "u1")
	require.NoError(t, ic.Set(ctx, "u1", progress.EmptySnapshot()))
	_, ok, _ := ic.Get(ctx, "u1")

	assert.True(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.CacheMisses))
}
