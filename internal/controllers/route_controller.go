package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"route_planner/internal/mapview"
	"route_planner/internal/models"
	"route_planner/internal/planner"
)

// SummaryResponse is the summary as the planner page displays it.
type SummaryResponse struct {
	StopCount          int     `json:"stopCount"`
	TotalDistanceMiles float64 `json:"totalDistanceMiles"`
	TotalDistanceLabel string  `json:"totalDistanceLabel"`
	EstimatedMinutes   int     `json:"estimatedMinutes"`
}

func toSummaryResponse(s models.Summary) SummaryResponse {
	return SummaryResponse{
		StopCount:          s.StopCount,
		TotalDistanceMiles: s.TotalDistanceMiles,
		TotalDistanceLabel: s.DistanceLabel(),
		EstimatedMinutes:   s.RoundedMinutes(),
	}
}

// RouteController serves whole-route operations.
type RouteController struct {
	planner *planner.Planner
}

func NewRouteController(p *planner.Planner) *RouteController {
	return &RouteController{planner: p}
}

// OptimizeRoute runs nearest-neighbour ordering. It waits for outstanding
// address lookups, bounded by the request context.
func (rc *RouteController) OptimizeRoute(c *gin.Context) {
	result, err := rc.planner.OptimizeRoute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   result.Message,
		"reordered": result.Reordered,
		"stops":     result.Stops,
		"summary":   toSummaryResponse(result.Summary),
	})
}

func (rc *RouteController) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, toSummaryResponse(rc.planner.Summary()))
}

// ExportRoute downloads the route as a two-space indented JSON file.
func (rc *RouteController) ExportRoute(c *gin.Context) {
	doc, err := rc.planner.ExportRoute()
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("route-%d.json", doc.ExportedAt.UnixMilli())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetMap returns the current map view as a GeoJSON FeatureCollection.
func (rc *RouteController) GetMap(c *gin.Context) {
	body, err := json.Marshal(mapview.FeatureCollection(rc.planner.MapView()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}
