package planner

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"route_planner/internal/models"
	"route_planner/internal/optimizer"
	"route_planner/internal/summary"
)

// OptimizeResult describes a completed optimisation.
type OptimizeResult struct {
	Reordered int            `json:"reordered"`
	Message   string         `json:"message"`
	Stops     []models.Stop  `json:"stops"`
	Summary   models.Summary `json:"summary"`
}

// OptimizeRoute reorders positioned stops with the nearest-neighbour heuristic,
// keeping the first positioned stop as the start and moving stops without
// coordinates to the end. It waits for outstanding lookups first. Only one
// optimisation may run at a time; a concurrent call gets ErrOptimizeInProgress.
func (p *Planner) OptimizeRoute(ctx context.Context) (OptimizeResult, error) {
	if !p.optimizing.CompareAndSwap(false, true) {
		return OptimizeResult{}, ErrOptimizeInProgress
	}
	defer p.optimizing.Store(false)

	stops := p.store.List()
	if len(stops) < 2 {
		return OptimizeResult{}, fmt.Errorf("%w: need at least 2 stops to optimize route", optimizer.ErrInsufficientStops)
	}

	if err := p.awaitValidation(ctx, stops); err != nil {
		return OptimizeResult{}, fmt.Errorf("waiting for address validation: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	positioned, unpositioned := optimizer.Split(p.store.List())
	ordered, err := optimizer.Optimize(positioned)
	if err != nil {
		logrus.WithError(err).Warn("Route optimization skipped")
		return OptimizeResult{}, err
	}

	ids := make([]string, 0, len(ordered)+len(unpositioned))
	for _, s := range ordered {
		ids = append(ids, s.ID)
	}
	for _, s := range unpositioned {
		ids = append(ids, s.ID)
	}
	p.store.Arrange(ids)
	p.changed()

	current := p.store.List()
	result := OptimizeResult{
		Reordered: len(ordered),
		Message:   fmt.Sprintf("Route optimized! %d stops reordered for shortest distance.", len(ordered)),
		Stops:     current,
		Summary:   summary.Summarize(current),
	}
	logrus.WithFields(logrus.Fields{
		"reordered":      result.Reordered,
		"unpositioned":   len(unpositioned),
		"distance_miles": fmt.Sprintf("%.1f", result.Summary.TotalDistanceMiles),
	}).Info("Route optimized")
	return result, nil
}
