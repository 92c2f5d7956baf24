package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route_planner/internal/models"
)

func TestRouteWKB(t *testing.T) {
	line := []models.Position{{Lat: 39.74, Lng: -104.99}, {Lat: 40.01, Lng: -105.27}, {Lat: 38.83, Lng: -104.82}}

	b, err := RouteWKB(line)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	back, err := PositionsFromWKB(b)
	require.NoError(t, err)
	assert.Equal(t, line, back)
}

func TestRouteWKB_TooShort(t *testing.T) {
	b, err := RouteWKB([]models.Position{{Lat: 1, Lng: 1}})
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestPoint_AxisOrder(t *testing.T) {
	p := Point(models.Position{Lat: 10, Lng: 20})
	assert.Equal(t, 20.0, p.X())
	assert.Equal(t, 10.0, p.Y())
}
