package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-collector/internal/cache"
)

func TestCached(t *testing.T) {
	c := cache.New(true)
	e := c.Store("k", []byte(`{"seasons":[2024]}`), time.Minute)

	rec := httptest.NewRecorder()
	Cached(rec, httptest.NewRequest(http.MethodGet, "/api/v1/seasons", nil), e, time.Minute, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, e.ETag, rec.Header().Get("ETag"))
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"seasons":[2024]}`, rec.Body.String())
}

func TestCachedNotModified(t *testing.T) {
	e := cache.New(true).Store("k", []byte(`{}`), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons", nil)
	req.Header.Set("If-None-Match", e.ETag)
	rec := httptest.NewRecorder()
	Cached(rec, req, e, time.Minute, true)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Empty(t, rec.Body.Bytes())
}

func TestCachedHead(t *testing.T) {
	e := cache.New(false).Store("k", []byte(`{"a":1}`), time.Minute)

	rec := httptest.NewRecorder()
	Cached(rec, httptest.NewRequest(http.MethodHead, "/", nil), e, time.Minute, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "7", rec.Header().Get("Content-Length"))
	require.Empty(t, rec.Body.Bytes())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "NOT_FOUND", "no data")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ErrorDetail{Code: "NOT_FOUND", Message: "no data"}, body.Error)
}
