package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// FileWriter writes the scene to a standalone HTML page and a marker GeoJSON
// file. An empty path disables that output. Files are replaced atomically.
type FileWriter struct {
	HTMLPath    string
	GeoJSONPath string
}

func (fw FileWriter) Render(_ context.Context, scene domain.Scene) error {
	if fw.HTMLPath != "" {
		var buf bytes.Buffer
		if err := WriteHTML(&buf, scene); err != nil {
			return err
		}
		if err := writeFileAtomic(fw.HTMLPath, buf.Bytes()); err != nil {
			return err
		}
	}
	if fw.GeoJSONPath != "" {
		data, err := MarkersGeoJSON(scene.Markers)
		if err != nil {
			return fmt.Errorf("encode markers: %w", err)
		}
		if err := writeFileAtomic(fw.GeoJSONPath, data); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
