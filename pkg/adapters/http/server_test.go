package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ellipse = `<svg><ellipse rx="5" ry="5"/></svg>`

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	handler, err := NewHandler(opts...)
	require.NoError(t, err)
	return handler
}

func post(t *testing.T, handler http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "image/svg+xml")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/optimize"))
	assert.Equal(t, "1.0.0", doc.Info.Version)
}

func TestOptimize(t *testing.T) {
	handler := newTestHandler(t)

	w := post(t, handler, "/optimize?pretty=false", ellipse)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode[OptimizeResponse](t, w)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, resp.Data)
	assert.Equal(t, len(ellipse), resp.OriginalSize)
	assert.Equal(t, len(resp.Data), resp.OptimizedSize)
	assert.False(t, resp.Cached)
}

func TestOptimize_Precision(t *testing.T) {
	handler := newTestHandler(t)

	w := post(t, handler, "/optimize?pretty=false&precision=1", `<svg><rect width="10.25"/></svg>`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `<svg><rect width="10.3"/></svg>`, decode[OptimizeResponse](t, w).Data)
}

func TestOptimize_BaseOptions(t *testing.T) {
	handler := newTestHandler(t, WithOptimizerOptions(svgo.WithPretty(false), svgo.WithPlugins("convertColors")))

	w := post(t, handler, "/optimize", `<svg><ellipse fill="rgb(255,0,0)" rx="5" ry="5"/></svg>`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `<svg><ellipse fill="red" rx="5" ry="5"/></svg>`, decode[OptimizeResponse](t, w).Data)
}

func TestOptimize_BadRequests(t *testing.T) {
	handler := newTestHandler(t, WithMaxBodySize(64))

	tests := []struct {
		name   string
		target string
		body   string
		code   int
	}{
		{"malformed svg", "/optimize", `<svg><g></svg>`, http.StatusBadRequest},
		{"bad boolean", "/optimize?pretty=maybe", ellipse, http.StatusBadRequest},
		{"bad integer", "/optimize?precision=x", ellipse, http.StatusBadRequest},
		{"precision out of range", "/optimize?precision=-1", ellipse, http.StatusBadRequest},
		{"too large", "/optimize", `<svg>` + strings.Repeat(`<g/>`, 32) + `</svg>`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, handler, tt.target, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestOptimize_Cache(t *testing.T) {
	cache := memory.NewCache()
	handler := newTestHandler(t, WithCache(cache))

	first := decode[OptimizeResponse](t, post(t, handler, "/optimize?pretty=false", ellipse))
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.Len())

	second := decode[OptimizeResponse](t, post(t, handler, "/optimize?pretty=false", ellipse))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Data, second.Data)

	// different settings must not share an entry
	third := decode[OptimizeResponse](t, post(t, handler, "/optimize?pretty=true", ellipse))
	assert.False(t, third.Cached)
	assert.NotEqual(t, first.Data, third.Data)
	assert.Equal(t, 2, cache.Len())
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, error) { return "", io.ErrUnexpectedEOF }
func (failingCache) Set(context.Context, string, string) error  { return io.ErrUnexpectedEOF }
func (failingCache) Delete(context.Context, string) error       { return nil }

func TestOptimize_CacheErrorsAreNotFatal(t *testing.T) {
	handler := newTestHandler(t, WithCache(failingCache{}))

	w := post(t, handler, "/optimize?pretty=false", ellipse)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, decode[OptimizeResponse](t, w).Data)
}

func TestListPlugins(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plugins", nil))
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[[]PluginInfo](t, w)
	require.Len(t, list, 7)
	assert.Equal(t, "cleanupAttrs", list[0].Name)
	for _, p := range list {
		assert.True(t, p.Default, p.Name)
		assert.NotEmpty(t, p.Description, p.Name)
	}
}

func TestHealthAndInfo(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	info := decode[map[string]string](t, w)
	assert.Equal(t, svgo.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
}

func TestOpenAPIEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/optimize:")
}

func TestMetrics(t *testing.T) {
	handler := newTestHandler(t)
	post(t, handler, "/optimize?pretty=false", ellipse)
	post(t, handler, "/optimize", `<svg>`)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `svgo_optimizations_total{status="ok"} 1`)
	assert.Contains(t, body, `svgo_optimizations_total{status="rejected"} 1`)
	assert.Contains(t, body, `svgo_optimize_duration_seconds_count 2`)
	assert.Contains(t, body, `svgo_bytes_total{direction="in"}`)
}

func TestRequestIDAndCORS(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/optimize", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
