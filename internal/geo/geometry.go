package geo

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"route_planner/internal/models"
)

// LineString builds an XY line (x = longitude, y = latitude) through positions.
func LineString(positions []models.Position) *geom.LineString {
	coords := make([]geom.Coord, len(positions))
	for i, p := range positions {
		coords[i] = geom.Coord{p.Lng, p.Lat}
	}
	return geom.NewLineString(geom.XY).MustSetCoords(coords).SetSRID(4326)
}

// Point builds an XY point for a position.
func Point(p models.Position) *geom.Point {
	return geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{p.Lng, p.Lat}).SetSRID(4326)
}

// RouteWKB encodes the route line as little-endian WKB. Fewer than two
// positions do not make a line and yield nil.
func RouteWKB(positions []models.Position) ([]byte, error) {
	if len(positions) < 2 {
		return nil, nil
	}
	return wkb.Marshal(LineString(positions), binary.LittleEndian)
}

// PositionsFromWKB decodes a line written by RouteWKB.
func PositionsFromWKB(b []byte) ([]models.Position, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("expected LineString, got %T", g)
	}
	out := make([]models.Position, 0, ls.NumCoords())
	for _, c := range ls.Coords() {
		out = append(out, models.Position{Lat: c.Y(), Lng: c.X()})
	}
	return out, nil
}
