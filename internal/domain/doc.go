// Package domain models USGS earthquake feed data and the map markers and
// legend derived from it.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program summary feeds,
// documented at https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php.
// Each feed is a GeoJSON FeatureCollection refreshed by USGS every minute; the
// default feed lists M4.5+ events from the past 30 days.
//
// # Feed Conventions
//
// Geometry:
//
//	A Point with three coordinates: [longitude, latitude, depth].
//	Depth is kilometres below the surface. Shallow events near sea level
//	can report small negative depths (e.g. -1.2 for events above the geoid).
//	Marker positions swap the first two axes: (lat, lon).
//
// Properties used:
//
//	place    "10 km N of Testville, CA" (may be null on a small number of events)
//	time     epoch milliseconds, UTC
//	mag      magnitude; may be null while an event is being reviewed
//	magType  "ml", "md", "mb", "mww", ...
//	url      event detail page
//
// # Classification
//
// Depth selects a color from a [Palette]: an ordered list of buckets with
// strictly descending lower bounds and a catch-all default. A depth matches
// the first bucket whose lower bound it exceeds, so bounds are exclusive on
// the lower side:
//
//	depth > 90   -> bucket 90+
//	depth > 70   -> bucket 70–90   (90 itself lands here)
//	...
//	otherwise    -> default bucket
//
// Magnitude selects the marker radius: magnitude * scale, floored at a
// configurable minimum radius. See [Classifier].
//
// # Marker IDs
//
// A marker takes the USGS event ID, the network code followed by the event
// code, falling back to the feature's own id. Features with neither get a
// deterministic "eq-" SHA-256 prefix over place, time and coordinates, so two
// renders of the same feed produce identical output. See [DecodeFeature] and
// [generateID].
package domain
