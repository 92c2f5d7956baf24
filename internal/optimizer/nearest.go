// Package optimizer orders positioned stops into a short, though not optimal,
// tour using the nearest-neighbour heuristic.
package optimizer

import (
	"errors"
	"fmt"

	"route_planner/internal/geo"
	"route_planner/internal/models"
)

var (
	ErrInsufficientStops = errors.New("need at least 2 stops with valid addresses")
	ErrMissingPosition   = errors.New("stop has no position")
)

// Optimize returns stops reordered greedily: the first input stop stays first
// and each next stop is the closest one not yet placed. Ties go to the stop
// that appears earlier in the input. The input slice is not modified.
func Optimize(stops []models.Stop) ([]models.Stop, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientStops, len(stops))
	}
	for _, s := range stops {
		if s.Position == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPosition, s.ID)
		}
	}

	remaining := make([]models.Stop, len(stops)-1)
	copy(remaining, stops[1:])
	ordered := make([]models.Stop, 0, len(stops))
	ordered = append(ordered, stops[0])

	for len(remaining) > 0 {
		current := *ordered[len(ordered)-1].Position

		nearest := 0
		nearestDistance := geo.Between(current, *remaining[0].Position)
		for i := 1; i < len(remaining); i++ {
			d := geo.Between(current, *remaining[i].Position)
			if d < nearestDistance {
				nearestDistance = d
				nearest = i
			}
		}

		ordered = append(ordered, remaining[nearest])
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	return ordered, nil
}

// Split separates stops that can be routed from those that cannot, keeping
// the relative order of both groups.
func Split(stops []models.Stop) (positioned, unpositioned []models.Stop) {
	for _, s := range stops {
		if s.Position != nil {
			positioned = append(positioned, s)
		} else {
			unpositioned = append(unpositioned, s)
		}
	}
	return positioned, unpositioned
}

// PathLength is the total great-circle length of visiting stops in order.
// Stops without a position are skipped.
func PathLength(stops []models.Stop) float64 {
	var total float64
	var prev *models.Position
	for _, s := range stops {
		if s.Position == nil {
			continue
		}
		if prev != nil {
			total += geo.Between(*prev, *s.Position)
		}
		prev = s.Position
	}
	return total
}
