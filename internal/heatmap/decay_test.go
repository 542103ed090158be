package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/homeforyou/internal/geo"
)

func TestGrid_DecayParameters(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 3, Categories: []string{"gym"}})
	assert.Equal(t, 1, g.AreaOfImpact())
	assert.InDelta(t, math.Pow(1+4.0/3, 3), g.Depreciation(), 1e-12)
	assert.Equal(t, 1.0, g.DecayedAmount(0))
	assert.InDelta(t, 1/g.Depreciation(), g.DecayedAmount(1), 1e-12)

	g = newTestGrid(t, Options{RadiusKM: 2, Resolution: 11, Categories: []string{"gym"}})
	assert.Equal(t, 3, g.AreaOfImpact())
}

func TestGrid_ApplyObservation_Center(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 3, Categories: []string{"gym"}})

	writes, res := g.ApplyObservation("gym", geo.Point{})
	require.True(t, res.OK())
	assert.Equal(t, 9, writes)

	dep := g.Depreciation()
	want := [][]float64{
		{1 / (dep * dep), 1 / dep, 1 / (dep * dep)},
		{1 / dep, 1, 1 / dep},
		{1 / (dep * dep), 1 / dep, 1 / (dep * dep)},
	}
	for r := range want {
		for c := range want[r] {
			assert.InDelta(t, want[r][c], g.Cell(r, c).Contribution(0), 1e-12, "cell [%d,%d]", r, c)
		}
	}
}

func TestGrid_ApplyObservation_Corner(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 3, Categories: []string{"gym"}})

	// North-west cell: only the four cells inside the grid are written.
	writes, res := g.ApplyObservation("gym", geo.Point{X: -1.9, Y: 1.9})
	require.True(t, res.OK())
	assert.Equal(t, 4, writes)
	assert.Equal(t, 1.0, g.Cell(0, 0).Contribution(0))
	assert.Greater(t, g.Cell(1, 1).Contribution(0), 0.0)
	assert.Equal(t, 0.0, g.Cell(2, 2).Contribution(0))
	assert.Equal(t, 0.0, g.Cell(0, 2).Contribution(0))
}

func TestGrid_ApplyObservation_Rejections(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 3, Categories: []string{"gym"}})

	writes, res := g.ApplyObservation("gym", geo.Point{X: 2, Y: 0})
	assert.Equal(t, RejectedOutOfBounds, res.Status)
	assert.Zero(t, writes)

	writes, res = g.ApplyObservation("spa", geo.Point{})
	assert.Equal(t, RejectedCategory, res.Status)
	assert.Zero(t, writes)

	assert.Equal(t, 0.0, g.Evaluate().Max())
}

func TestGrid_DecayMonotonic(t *testing.T) {
	g := newTestGrid(t, Options{RadiusKM: 2, Resolution: 11, Categories: []string{"gym"}})

	for i := 0; i < 2; i++ {
		_, res := g.ApplyObservation("gym", geo.Point{})
		require.True(t, res.OK())
	}

	// Walk east from the center cell (5, 5).
	prev := math.Inf(1)
	for c := 5; c <= 8; c++ {
		v := g.Cell(5, c).Contribution(0)
		assert.Less(t, v, prev, "col %d", c)
		prev = v
	}
	assert.InDelta(t, 2.0, g.Cell(5, 5).Contribution(0), 1e-12)

	// Beyond the area of impact nothing is written.
	assert.Equal(t, 0.0, g.Cell(5, 9).Contribution(0))
	assert.Equal(t, 0.0, g.Cell(1, 5).Contribution(0))

	// Same Manhattan distance, same amount.
	assert.InDelta(t, g.Cell(4, 6).Contribution(0), g.Cell(5, 7).Contribution(0), 1e-15)
}

func TestGrid_ApplyObservation_OrderIndependent(t *testing.T) {
	points := []geo.Point{{X: 0.3, Y: -0.4}, {X: -1.2, Y: 1.1}, {X: 0.9, Y: 0.9}}
	opts := Options{RadiusKM: 2, Resolution: 7, Categories: []string{"gym"}}

	forward := newTestGrid(t, opts)
	for _, p := range points {
		forward.ApplyObservation("gym", p)
	}
	backward := newTestGrid(t, opts)
	for i := len(points) - 1; i >= 0; i-- {
		backward.ApplyObservation("gym", points[i])
	}

	for r := 0; r < 7; r++ {
		for c := 0; c < 7; c++ {
			assert.InDelta(t, forward.Cell(r, c).Contribution(0), backward.Cell(r, c).Contribution(0), 1e-12)
		}
	}
}
