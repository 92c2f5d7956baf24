package models

import (
	"fmt"
	"math"
	"time"
)

// Summary is derived from the current stop order and never persisted.
type Summary struct {
	StopCount          int     `json:"stopCount"`
	TotalDistanceMiles float64 `json:"totalDistanceMiles"`
	EstimatedMinutes   float64 `json:"estimatedMinutes"`
}

// DistanceLabel renders the total distance the way the planner UI shows it.
func (s Summary) DistanceLabel() string {
	return fmt.Sprintf("%.1f miles", s.TotalDistanceMiles)
}

// RoundedMinutes is the travel estimate rounded to whole minutes.
func (s Summary) RoundedMinutes() int {
	return int(math.Round(s.EstimatedMinutes))
}

// ExportStop is one numbered entry of an exported route.
type ExportStop struct {
	Order       int       `json:"order"`
	Name        string    `json:"name"`
	Notes       string    `json:"notes"`
	Coordinates *Position `json:"coordinates"`
}

// RouteExport is the document handed to the export sink.
type RouteExport struct {
	Stops      []ExportStop `json:"stops"`
	ExportedAt time.Time    `json:"exportedAt"`
}

// Marker is a positioned stop as drawn on the map.
type Marker struct {
	Order int     `json:"order"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// MapView is everything the map needs to re-synchronise after a change.
// Route is only populated when at least two markers exist.
type MapView struct {
	Markers []Marker   `json:"markers"`
	Route   []Position `json:"route,omitempty"`
	Summary Summary    `json:"summary"`
}
