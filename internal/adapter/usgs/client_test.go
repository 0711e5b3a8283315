package usgs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `{"type":"FeatureCollection","features":[]}`

func testClient(url string, metrics *observability.Metrics) *Client {
	return NewClient(url, 2*time.Second, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch_Success(t *testing.T) {
	fetchedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fetchedAt))
	t.Cleanup(func() { domain.SetClock(nil) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/feed.geojson", r.URL.Path)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = io.WriteString(w, feedBody)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL+"/feed.geojson", metrics)

	feed, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, feedBody, string(feed.Body))
	assert.Equal(t, srv.URL+"/feed.geojson", feed.Source)
	assert.Equal(t, fetchedAt, feed.FetchedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Fetches.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Fetches.WithLabelValues("error")))
}

func TestClient_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Fetches.WithLabelValues("error")))
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url, observability.NewMetricsForTesting()).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
}

func TestClient_Fetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, feedBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}
