package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"route_planner/internal/geo"
	"route_planner/internal/models"
)

// GormStore keeps the blob in a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the saved_routes table and returns the adapter.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.SavedRoute{}); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save upserts the blob together with the route line derived from it.
func (g *GormStore) Save(ctx context.Context, blob []byte) error {
	row := models.SavedRoute{Key: StorageKey, Payload: blob}

	if stops, err := Decode(blob); err == nil {
		var line []models.Position
		for _, s := range stops {
			if s.Position != nil {
				line = append(line, *s.Position)
			}
		}
		if row.Geometry, err = geo.RouteWKB(line); err != nil {
			logrus.WithError(err).Warn("GormStore: could not encode route geometry")
			row.Geometry = nil
		}
	}

	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "geometry", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save stops: %w", err)
	}
	return nil
}

// Load returns the saved blob or nil when none exists.
func (g *GormStore) Load(ctx context.Context) ([]byte, error) {
	var row models.SavedRoute
	err := g.db.WithContext(ctx).Where("key = ?", StorageKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stops: %w", err)
	}
	return row.Payload, nil
}
