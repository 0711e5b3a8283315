package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// maxFeedBytes caps the response size; the monthly M4.5+ feed is well under 5 MB.
const maxFeedBytes = 64 << 20

// Client fetches a USGS GeoJSON summary feed over HTTP.
type Client struct {
	feedURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. timeout bounds the whole request.
func NewClient(feedURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch downloads the feed once. Network errors, non-200 responses, and
// truncated bodies wrap domain.ErrFetchFailed. No retries are attempted.
func (c *Client) Fetch(ctx context.Context) (domain.RawFeed, error) {
	start := time.Now()
	body, err := c.get(ctx)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.Fetches.WithLabelValues("error").Inc()
		return domain.RawFeed{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	c.metrics.Fetches.WithLabelValues("success").Inc()

	c.logger.Debug("feed fetched", "url", c.feedURL, "bytes", len(body), "duration", time.Since(start))
	return domain.RawFeed{
		Body:      body,
		Source:    c.feedURL,
		FetchedAt: domain.Now(),
	}, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed status %d: %s", resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if len(body) > maxFeedBytes {
		return nil, fmt.Errorf("feed body exceeds %d bytes", maxFeedBytes)
	}
	return body, nil
}
