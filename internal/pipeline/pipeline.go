package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Fetcher retrieves the raw feed document.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.RawFeed, error)
}

// Transformer converts one raw feed feature into a map marker.
type Transformer interface {
	Transform(ctx context.Context, raw json.RawMessage) (domain.Marker, error)
}

// Renderer receives the finished scene.
type Renderer interface {
	Render(ctx context.Context, scene domain.Scene) error
}

// SceneOptions holds the parts of a scene that do not depend on the feed.
type SceneOptions struct {
	Title   string
	Palette domain.Palette
	Layers  []domain.BaseLayer
	View    domain.MapView
}

// Result summarizes one pipeline run.
type Result struct {
	Source   string
	Total    int
	Rendered int
	Skipped  int
	Duration time.Duration
}

// Pipeline orchestrates the fetch-transform-render pass.
type Pipeline struct {
	fetcher     Fetcher
	transformer Transformer
	renderer    Renderer
	opts        SceneOptions
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(f Fetcher, t Transformer, r Renderer, opts SceneOptions, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.Title == "" {
		opts.Title = "Earthquakes"
	}
	return &Pipeline{
		fetcher:     f,
		transformer: t,
		renderer:    r,
		opts:        opts,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a scene has been rendered,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no scene has been rendered yet")
	}
	return nil
}

// Run fetches the feed once, builds a marker per well-formed feature, and
// renders the scene. Fetch and decode failures wrap domain.ErrFetchFailed and
// are not retried. Malformed features are logged, counted, and skipped.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	feed, err := p.fetcher.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
		}
		return Result{}, err
	}

	raws, err := domain.DecodeFeatureCollection(feed.Body)
	if err != nil {
		return Result{}, err
	}
	p.metrics.FeaturesFetched.Add(float64(len(raws)))

	res := Result{Source: feed.Source, Total: len(raws)}
	markers := make([]domain.Marker, 0, len(raws))
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		m, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping feature", "error", err, "index", i)
			p.metrics.MalformedSkipped.Inc()
			res.Skipped++
			continue
		}
		markers = append(markers, m)
	}
	res.Rendered = len(markers)

	scene := p.buildScene(feed, markers, res)
	if err := p.renderer.Render(ctx, scene); err != nil {
		p.metrics.RenderErrors.Inc()
		return res, fmt.Errorf("render scene: %w", err)
	}

	p.metrics.MarkersRendered.Add(float64(res.Rendered))
	p.metrics.LastRunMarkers.Set(float64(res.Rendered))
	p.ready.Store(true)

	res.Duration = time.Since(start)
	p.logger.Info("scene rendered",
		"source", res.Source,
		"features", res.Total,
		"markers", res.Rendered,
		"skipped", res.Skipped,
		"duration", res.Duration,
	)
	return res, nil
}

func (p *Pipeline) buildScene(feed domain.RawFeed, markers []domain.Marker, res Result) domain.Scene {
	return domain.Scene{
		Title:       p.opts.Title,
		OverlayName: domain.OverlayName,
		LegendTitle: domain.LegendTitle,
		Markers:     markers,
		Legend:      domain.BuildLegend(p.opts.Palette),
		Layers:      append([]domain.BaseLayer(nil), p.opts.Layers...),
		View:        p.opts.View,
		Source:      feed.Source,
		Total:       res.Total,
		Skipped:     res.Skipped,
		GeneratedAt: domain.Now(),
	}
}
