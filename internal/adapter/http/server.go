package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SceneSource provides the most recently rendered scene.
type SceneSource interface {
	Latest() (domain.Scene, bool)
}

// Server exposes the map page, its JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	scenes     SceneSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/markers, /api/legend,
// /api/layers, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, scenes SceneSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scenes: scenes,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /api/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /api/layers", s.handleLayers)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// latest writes a 503 and returns false when nothing has been rendered yet.
func (s *Server) latest(w http.ResponseWriter) (domain.Scene, bool) {
	scene, ok := s.scenes.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no scene has been rendered yet",
		})
	}
	return scene, ok
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.latest(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, scene); err != nil {
		s.logger.Error("render map page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck,gosec // client went away
}

func (s *Server) handleMarkers(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.latest(w)
	if !ok {
		return
	}

	data, err := render.MarkersGeoJSON(scene.Markers)
	if err != nil {
		s.logger.Error("encode markers failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck,gosec // client went away
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.latest(w)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"title":   scene.LegendTitle,
		"entries": scene.Legend,
	})
}

func (s *Server) handleLayers(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.latest(w)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"base_layers": scene.Layers,
		"overlay":     scene.OverlayName,
		"view":        scene.View,
	})
}
