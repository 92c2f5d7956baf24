package geo

import (
	"math"

	"route_planner/internal/models"
)

// EarthRadiusMiles is the sphere radius used for every distance in the planner.
const EarthRadiusMiles = 3959

// Distance returns the great-circle distance in miles between two points
// using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

// Between is Distance for two resolved positions.
func Between(a, b models.Position) float64 {
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// toRadians converts an angle from degrees to radians.
func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
