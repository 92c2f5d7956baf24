package models

import (
	"gorm.io/gorm"
)

// SavedRoute is the row the postgres adapter keeps the stop collection in.
// Payload is the serialised stop list; Geometry is the route line as WKB
// (SRID 4326) so it can be inspected with PostGIS.
type SavedRoute struct {
	gorm.Model

	Key      string `gorm:"uniqueIndex;not null" json:"key"`
	Payload  []byte `gorm:"type:bytea;not null" json:"-"`
	Geometry []byte `gorm:"type:bytea" json:"-"`
}
