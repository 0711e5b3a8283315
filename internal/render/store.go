package render

import (
	"context"
	"sync"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Store keeps the most recently rendered scene in memory for the HTTP handlers.
type Store struct {
	mu    sync.RWMutex
	scene *domain.Scene
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Render replaces the stored scene. Slices are copied so later changes by the
// caller do not leak into readers.
func (s *Store) Render(_ context.Context, scene domain.Scene) error {
	scene.Markers = append([]domain.Marker{}, scene.Markers...)
	scene.Legend = append([]domain.LegendEntry{}, scene.Legend...)
	scene.Layers = append([]domain.BaseLayer{}, scene.Layers...)

	s.mu.Lock()
	s.scene = &scene
	s.mu.Unlock()
	return nil
}

// Latest returns the stored scene and whether one has been rendered.
func (s *Store) Latest() (domain.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scene == nil {
		return domain.Scene{}, false
	}
	return *s.scene, true
}
