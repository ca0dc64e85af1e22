package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/svgo/internal/logging"
	httpAdapter "github.com/aretw0/svgo/pkg/adapters/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optimizeOnce(t *testing.T, h http.Handler) httpAdapter.OptimizeResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/optimize?pretty=false", strings.NewReader(ellipse))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp httpAdapter.OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newServeHandler(t *testing.T, o *serveOptions) http.Handler {
	t.Helper()
	g := &globals{logger: logging.NewNop()}
	h, release, err := o.handler(context.Background(), g)
	require.NoError(t, err)
	t.Cleanup(func() { _ = release() })
	return h
}

func TestServe_MemoryCache(t *testing.T) {
	h := newServeHandler(t, &serveOptions{cache: "memory", cacheSize: 8})

	assert.False(t, optimizeOnce(t, h).Cached)
	second := optimizeOnce(t, h)
	assert.True(t, second.Cached)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, second.Data)
}

func TestServe_NoCache(t *testing.T) {
	h := newServeHandler(t, &serveOptions{cache: "none"})

	assert.False(t, optimizeOnce(t, h).Cached)
	assert.False(t, optimizeOnce(t, h).Cached)
}

func TestServe_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	h := newServeHandler(t, &serveOptions{cache: "redis", redisURL: "redis://" + mr.Addr(), cacheTTL: time.Minute})

	assert.False(t, optimizeOnce(t, h).Cached)
	assert.True(t, optimizeOnce(t, h).Cached)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "svgo:result:"))
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestServe_CacheErrors(t *testing.T) {
	g := &globals{logger: logging.NewNop()}

	_, _, err := (&serveOptions{cache: "disk"}).handler(context.Background(), g)
	assert.ErrorContains(t, err, `unknown cache "disk"`)

	_, _, err = (&serveOptions{cache: "redis", redisURL: "not-a-url"}).handler(context.Background(), g)
	assert.ErrorContains(t, err, "invalid redis url")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	_, _, err = (&serveOptions{cache: "redis", redisURL: "redis://" + addr}).handler(context.Background(), g)
	assert.ErrorContains(t, err, "redis unavailable")
}
