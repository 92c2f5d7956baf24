package summary

import (
	"route_planner/internal/models"
	"route_planner/internal/optimizer"
)

// AverageSpeedMPH is the fixed speed used for travel time estimates.
const AverageSpeedMPH = 45

// Summarize totals the distance between consecutive positioned stops in their
// current order. Unpositioned stops are counted but do not break the chain.
func Summarize(stops []models.Stop) models.Summary {
	miles := optimizer.PathLength(stops)
	return models.Summary{
		StopCount:          len(stops),
		TotalDistanceMiles: miles,
		EstimatedMinutes:   miles / AverageSpeedMPH * 60,
	}
}
