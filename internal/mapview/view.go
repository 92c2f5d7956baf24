package mapview

import (
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"

	"route_planner/internal/geo"
	"route_planner/internal/models"
)

// Sink receives a fresh view whenever stop order, positions or membership change.
type Sink interface {
	Publish(view models.MapView)
}

// Build projects stops onto the map: one marker per positioned stop, numbered
// by its place in the full list, and a route line once two markers exist.
func Build(stops []models.Stop, summary models.Summary) models.MapView {
	view := models.MapView{Markers: []models.Marker{}, Summary: summary}
	for i, s := range stops {
		if s.Position == nil {
			continue
		}
		view.Markers = append(view.Markers, models.Marker{
			Order: i + 1,
			Lat:   s.Position.Lat,
			Lng:   s.Position.Lng,
			Label: fmt.Sprintf("Stop %d: %s", i+1, s.Name),
		})
	}
	if len(view.Markers) >= 2 {
		view.Route = make([]models.Position, len(view.Markers))
		for i, m := range view.Markers {
			view.Route[i] = models.Position{Lat: m.Lat, Lng: m.Lng}
		}
	}
	return view
}

// FeatureCollection renders a view as GeoJSON: a Point per marker followed by
// the route LineString when there is one.
func FeatureCollection(view models.MapView) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(view.Markers)+1)}
	for _, m := range view.Markers {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geo.Point(models.Position{Lat: m.Lat, Lng: m.Lng}),
			Properties: map[string]interface{}{
				"kind":  "stop",
				"order": m.Order,
				"label": m.Label,
			},
		})
	}
	if len(view.Route) >= 2 {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geo.LineString(view.Route),
			Properties: map[string]interface{}{
				"kind":               "route",
				"totalDistanceMiles": view.Summary.TotalDistanceMiles,
				"estimatedMinutes":   view.Summary.RoundedMinutes(),
			},
		})
	}
	return fc
}
