package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

type pageData struct {
	Title string
	Scene domain.Scene
}

// WriteHTML renders a standalone Leaflet page for the scene. The scene is
// embedded as JSON; popup and legend text is inserted as DOM text, never HTML.
func WriteHTML(w io.Writer, scene domain.Scene) error {
	if scene.Markers == nil {
		scene.Markers = []domain.Marker{}
	}
	if scene.Legend == nil {
		scene.Legend = []domain.LegendEntry{}
	}
	if scene.Layers == nil {
		scene.Layers = []domain.BaseLayer{}
	}
	if err := pageTemplate.Execute(w, pageData{Title: scene.Title, Scene: scene}); err != nil {
		return fmt.Errorf("execute map template: %w", err)
	}
	return nil
}
