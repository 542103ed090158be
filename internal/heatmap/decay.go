package heatmap

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/geo"
)

// AreaOfImpact is the neighborhood reach, in grid steps, of one observation.
func (g *Grid) AreaOfImpact() int {
	return g.resolution / 3
}

// Depreciation is the per-step decay divisor. Larger cells decay faster.
func (g *Grid) Depreciation() float64 {
	return math.Pow(1+g.cellEdge, 3)
}

// DecayedAmount is the contribution received by a cell at Manhattan
// distance dist from the observed cell.
func (g *Grid) DecayedAmount(dist int) float64 {
	return 1 / math.Pow(g.Depreciation(), float64(dist))
}

// ApplyObservation distributes one point of interest over the cell it falls
// in and every in-range cell within AreaOfImpact rows and columns. It
// returns the number of cells written.
func (g *Grid) ApplyObservation(category string, p geo.Point) (int, Result) {
	idx, ok := g.categories.Index(category)
	if !ok {
		res := rejected(RejectedCategory, "category %q not configured", category)
		g.log.Debug("heatmap: observation rejected", zap.String("category", category), zap.String("reason", res.Reason))
		return 0, res
	}

	row, col, res := g.Locate(p)
	if !res.OK() {
		g.log.Debug("heatmap: observation rejected", zap.String("category", category), zap.String("reason", res.Reason))
		return 0, res
	}

	reach := g.AreaOfImpact()
	writes := 0
	for r := row - reach; r <= row+reach; r++ {
		if r < 0 || r >= g.resolution {
			continue
		}
		for c := col - reach; c <= col+reach; c++ {
			if c < 0 || c >= g.resolution {
				continue
			}
			dist := absInt(r-row) + absInt(c-col)
			if g.addAt(r, c, idx, g.DecayedAmount(dist)).OK() {
				writes++
			}
		}
	}

	g.log.Debug("heatmap: observation applied",
		zap.String("category", category),
		zap.Int("row", row),
		zap.Int("col", col),
		zap.Int("cells", writes),
	)
	return writes, accepted()
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
