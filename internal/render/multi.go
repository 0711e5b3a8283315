package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
)

// Multi fans a scene out to several renderers in order. Every renderer is
// called even if an earlier one fails; the failures are joined.
type Multi []pipeline.Renderer

func (m Multi) Render(ctx context.Context, scene domain.Scene) error {
	var errs []error
	for i, r := range m {
		if err := r.Render(ctx, scene); err != nil {
			errs = append(errs, fmt.Errorf("renderer %d (%T): %w", i, r, err))
		}
	}
	return errors.Join(errs...)
}
