package planner

import (
	"context"

	"github.com/sirupsen/logrus"

	"route_planner/internal/models"
	"route_planner/internal/persistence"
)

// ExportRoute snapshots the current order as a numbered document.
func (p *Planner) ExportRoute() (models.RouteExport, error) {
	stops := p.store.List()
	if len(stops) == 0 {
		return models.RouteExport{}, ErrNothingToExport
	}

	doc := models.RouteExport{
		Stops:      make([]models.ExportStop, len(stops)),
		ExportedAt: p.now().UTC(),
	}
	for i, s := range stops {
		doc.Stops[i] = models.ExportStop{
			Order:       i + 1,
			Name:        s.Name,
			Notes:       s.Notes,
			Coordinates: s.Position,
		}
	}
	return doc, nil
}

// LoadFromPersistence replaces the collection with the saved one and restarts
// lookups for stops that never finished one. Read or decode failures are
// logged and leave the planner empty. It returns the number of stops loaded.
func (p *Planner) LoadFromPersistence(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	stops := p.readSaved(ctx)
	p.store.ReplaceAll(stops)

	for _, s := range stops {
		if s.ValidationStatus == models.StatusPending {
			p.dispatch(s.ID)
		}
	}

	current := p.store.List()
	p.sink.Publish(p.buildView(current))
	logrus.WithField("stops", len(current)).Info("Stops loaded from storage")
	return len(current)
}

func (p *Planner) readSaved(ctx context.Context) []models.Stop {
	blob, err := p.persist.Load(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error loading from storage")
		return nil
	}
	stops, err := persistence.Decode(blob)
	if err != nil {
		logrus.WithError(err).Error("Error loading from storage")
		return nil
	}
	return stops
}
