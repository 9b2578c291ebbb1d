package apisports

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-collector/internal/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", APIKey: "test-key", Timeout: 2 * time.Second}, nil)
}

func TestGetSendsKeyAndParams(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(AuthHeader)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"get":"teams","errors":[],"results":1,"response":[{"team":{"id":33}}]}`))
	})

	env, err := client.Get(context.Background(), "teams", url.Values{"league": {"39"}, "season": {"2024"}})
	require.NoError(t, err)
	require.Equal(t, "/teams", gotPath)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "39", gotQuery.Get("league"))
	require.Equal(t, "2024", gotQuery.Get("season"))
	require.Equal(t, 1, env.Results)
	require.JSONEq(t, `[{"team":{"id":33}}]`, string(env.Response))
}

func TestGetNestedEndpoint(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"response":{}}`))
	})

	_, err := client.Get(context.Background(), "teams/statistics", url.Values{"team": {"33"}})
	require.NoError(t, err)
	require.Equal(t, "/teams/statistics", gotPath)
}

func TestGetNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := client.Get(context.Background(), "teams", nil)
	reqErr, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, "teams", reqErr.Endpoint)
	require.Equal(t, http.StatusForbidden, reqErr.StatusCode)
}

func TestGetNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := client.Get(context.Background(), "teams", nil)
	reqErr, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, reqErr.StatusCode)
	require.Contains(t, err.Error(), "decode response")
}

func TestGetAPILevelErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":{"token":"Error/Missing application key"},"results":0,"response":[]}`))
	})

	_, err := client.Get(context.Background(), "teams", nil)
	_, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Contains(t, err.Error(), "Missing application key")
}

func TestGetNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: base, APIKey: "k", Timeout: time.Second}, nil)
	_, err := client.Get(context.Background(), "teams", nil)
	reqErr, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Zero(t, reqErr.StatusCode)
}

func TestGetWithPacer(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"response":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", RequestsPerMinute: 600}, nil)
	require.NotNil(t, client.limiter)
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "teams", nil)
		require.NoError(t, err)
	}
	require.Equal(t, 2, calls)
}

func TestAPIErrors(t *testing.T) {
	require.Empty(t, apiErrors(nil))
	require.Empty(t, apiErrors([]byte(`[]`)))
	require.Empty(t, apiErrors([]byte(`{}`)))
	require.Equal(t, "plan: x; token: y", apiErrors([]byte(`{"token":"y","plan":"x"}`)))
	require.Equal(t, "bad season", apiErrors([]byte(`["bad season"]`)))
	require.Equal(t, "Too many requests", apiErrors([]byte(`"Too many requests"`)))
	require.Empty(t, apiErrors([]byte(`""`)))
	require.Empty(t, apiErrors([]byte(`null`)))
}

func TestGetAPIErrorString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":"You have reached the request limit for the day","results":0,"response":[]}`))
	})

	_, err := client.Get(context.Background(), "teams", nil)
	reqErr, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, reqErr.StatusCode)
	require.Contains(t, err.Error(), "request limit for the day")
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"response":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond}, nil)
	start := time.Now()
	_, err := client.Get(context.Background(), "teams", nil)
	require.Less(t, time.Since(start), time.Second)

	reqErr, ok := provider.AsRequestError(err)
	require.True(t, ok)
	require.Zero(t, reqErr.StatusCode)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	require.True(t, netErr.Timeout())
}
