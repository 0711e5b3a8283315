package domain

import "net/url"

// OverlayName labels the earthquake layer in the layer control.
const OverlayName = "Earthquakes"

// DefaultView centers the contiguous United States.
var DefaultView = MapView{
	Center: LatLng{Lat: 37.09, Lon: -95.71},
	Zoom:   4,
}

const (
	osmAttribution  = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	topoAttribution = `Map data: &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, ` +
		`<a href="http://viewfinderpanoramas.org">SRTM</a> | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> ` +
		`(<a href="https://creativecommons.org/licenses/by-sa/3.0/">CC-BY-SA</a>)`
	mapboxAttribution = `&copy; <a href="https://www.mapbox.com/about/maps/">Mapbox</a> ` + osmAttribution

	mapboxSatelliteStyle = "https://api.mapbox.com/styles/v1/mapbox/satellite-streets-v12/tiles/256/{z}/{x}/{y}@2x"
)

// BaseLayers returns the switchable tile layers. The topographic map is shown
// on load. A satellite layer is added when a Mapbox token is available.
func BaseLayers(mapboxToken string) []BaseLayer {
	layers := []BaseLayer{
		{
			Name:        "Street Map",
			URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: osmAttribution,
			Subdomains:  "abc",
			MaxZoom:     19,
		},
		{
			Name:        "Topographic Map",
			URLTemplate: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
			Attribution: topoAttribution,
			Subdomains:  "abc",
			MaxZoom:     17,
			Default:     true,
		},
	}
	if mapboxToken != "" {
		layers = append(layers, BaseLayer{
			Name:        "Satellite",
			URLTemplate: mapboxSatelliteStyle + "?access_token=" + url.QueryEscape(mapboxToken),
			Attribution: mapboxAttribution,
			MaxZoom:     20,
		})
	}
	return layers
}
