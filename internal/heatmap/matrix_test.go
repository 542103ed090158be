package heatmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/homeforyou/internal/geo"
)

func TestMatrix_Text(t *testing.T) {
	m := Matrix{
		{0, 1},
		{0.05600000000000005, 0.59},
	}
	assert.Equal(t, "0.0\t1.0\t\n0.0\t0.5\t\n", m.Text())
}

func TestMatrix_MaxSum(t *testing.T) {
	m := Matrix{{0, 0.25}, {0.5, 0.25}}
	assert.Equal(t, 0.5, m.Max())
	assert.InDelta(t, 1.0, m.Sum(), 1e-12)
	assert.Equal(t, 0.0, Matrix{}.Max())
}

func TestGrid_FeatureCollection(t *testing.T) {
	s, err := NewScorer(Options{Origin: geo.Coord{}, RadiusKM: 2, Resolution: 3, Categories: []string{"gym", "park"}})
	require.NoError(t, err)
	m := s.Run([]PlaceSet{
		{Category: "gym", Coords: []geo.Coord{{}}},
		{Category: "park", Coords: []geo.Coord{{}}},
	})

	fc, err := s.Grid().FeatureCollection(m)
	require.NoError(t, err)
	require.Len(t, fc.Features, 9)

	center := fc.Features[4]
	assert.Equal(t, 1, center.Properties["row"])
	assert.Equal(t, 1, center.Properties["col"])
	assert.InDelta(t, 1.0, center.Properties["weight"].(float64), 1e-9)
	contrib := center.Properties["contributions"].(map[string]any)
	assert.InDelta(t, 1.0, contrib["gym"].(float64), 1e-12)

	nw := fc.Features[0]
	ring := nw.Geometry.FlatCoords()
	require.Len(t, ring, 10)
	// First corner is the south-west corner of the north-west cell.
	assert.InDelta(t, -2/geo.KMPerDegreeLon, ring[0], 1e-4)
	assert.InDelta(t, (2-4.0/3)/geo.KMPerDegreeLat, ring[1], 1e-9)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `"Polygon"`)
}

func TestGrid_FeatureCollection_ShapeMismatch(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 3, Categories: []string{"gym"}})
	_, err := g.FeatureCollection(Matrix{{0}})
	assert.Error(t, err)

	_, err = g.CellPolygon(3, 0)
	assert.Error(t, err)
}
