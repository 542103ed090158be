package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		coord Coord
		wantX float64
		wantY float64
	}{
		{
			name:  "origin",
			coord: Coord{Lat: 0, Lon: 0},
			wantX: 0,
			wantY: 0,
		},
		{
			name:  "one degree east on the equator",
			coord: Coord{Lat: 0, Lon: 1},
			wantX: 111.32,
			wantY: 0,
		},
		{
			name:  "one degree north",
			coord: Coord{Lat: 1, Lon: 0},
			wantX: 0,
			wantY: 110.574,
		},
		{
			name:  "longitude shrinks at 60 degrees",
			coord: Coord{Lat: 60, Lon: 1},
			wantX: 55.66,
			wantY: 6634.44,
		},
		{
			name:  "pune",
			coord: Coord{Lat: 18.509458, Lon: 73.847296},
			wantX: 73.847296 * 111.32 * math.Cos(18.509458*math.Pi/180),
			wantY: 18.509458 * 110.574,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.coord)
			assert.InDelta(t, tt.wantX, p.X, 1e-6)
			assert.InDelta(t, tt.wantY, p.Y, 1e-6)
		})
	}
}

func TestUnproject_RoundTrip(t *testing.T) {
	coords := []Coord{
		{Lat: 18.509458, Lon: 73.847296},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 41.8781, Lon: -87.6298},
		{Lat: 0, Lon: 0},
	}
	for _, c := range coords {
		got := Unproject(Project(c))
		assert.InDelta(t, c.Lat, got.Lat, 1e-9)
		assert.InDelta(t, c.Lon, got.Lon, 1e-9)
	}
}

func TestCoordValid(t *testing.T) {
	assert.True(t, Coord{Lat: 18.5, Lon: 73.8}.Valid())
	assert.True(t, Coord{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Coord{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Coord{Lat: 0, Lon: -181}.Valid())
	assert.False(t, Coord{Lat: math.NaN(), Lon: 0}.Valid())
	assert.False(t, Coord{Lat: 0, Lon: math.Inf(1)}.Valid())
}
