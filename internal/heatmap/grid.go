package heatmap

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/geo"
)

// Options configures a grid.
type Options struct {
	Origin     geo.Coord
	RadiusKM   float64
	Resolution int
	Categories []string
	Policy     Policy
}

// Bounds is the grid's bounding box in projected kilometers.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// Grid is a square, odd-sized matrix of cells centered on the projected
// origin. Row 0 is the north edge and column 0 the west edge.
type Grid struct {
	origin     geo.Coord
	center     geo.Point
	radiusKM   float64
	resolution int
	cellEdge   float64
	bounds     Bounds
	categories *Categories
	policy     Policy
	cells      [][]*Cell
	log        *zap.Logger
}

// MaxResolution is the largest grid side NewGrid accepts.
const MaxResolution = 1001

// OddResolution returns n if odd, otherwise n+1.
func OddResolution(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// NewGrid allocates a grid with every category zeroed in every cell.
// An even resolution is raised to the next odd value.
func NewGrid(opts Options, log *zap.Logger) (*Grid, error) {
	if opts.Resolution <= 0 {
		return nil, eris.Errorf("heatmap: resolution must be positive, got %d", opts.Resolution)
	}
	if opts.Resolution > MaxResolution {
		return nil, eris.Errorf("heatmap: resolution %d exceeds maximum %d", opts.Resolution, MaxResolution)
	}
	if !(opts.RadiusKM > 0) || math.IsInf(opts.RadiusKM, 0) {
		return nil, eris.Errorf("heatmap: radius must be positive and finite, got %v", opts.RadiusKM)
	}
	cats, err := NewCategories(opts.Categories)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	center := geo.Project(opts.Origin)
	res := OddResolution(opts.Resolution)

	g := &Grid{
		origin:     opts.Origin,
		center:     center,
		radiusKM:   opts.RadiusKM,
		resolution: res,
		cellEdge:   2 * opts.RadiusKM / float64(res),
		bounds: Bounds{
			Left:   center.X - opts.RadiusKM,
			Right:  center.X + opts.RadiusKM,
			Bottom: center.Y - opts.RadiusKM,
			Top:    center.Y + opts.RadiusKM,
		},
		categories: cats,
		policy:     opts.Policy,
		log:        log,
	}

	g.cells = make([][]*Cell, res)
	for r := range g.cells {
		row := make([]*Cell, res)
		for c := range row {
			row[c] = newCell(cats.Len(), opts.Policy)
		}
		g.cells[r] = row
	}

	return g, nil
}

// Resolution returns the side length in cells (always odd).
func (g *Grid) Resolution() int { return g.resolution }

// CellEdge returns the side of one cell in kilometers.
func (g *Grid) CellEdge() float64 { return g.cellEdge }

// RadiusKM returns the half-width of the bounding box.
func (g *Grid) RadiusKM() float64 { return g.radiusKM }

// Origin returns the geographic center of the grid.
func (g *Grid) Origin() geo.Coord { return g.origin }

// Bounds returns the bounding box fixed at construction.
func (g *Grid) Bounds() Bounds { return g.bounds }

// Categories returns the grid's category set.
func (g *Grid) Categories() *Categories { return g.categories }

// Policy returns the accumulation policy of every cell.
func (g *Grid) Policy() Policy { return g.policy }

// Cell returns the cell at (row, col), or nil when out of range.
func (g *Grid) Cell(row, col int) *Cell {
	if !g.inRange(row, col) {
		return nil
	}
	return g.cells[row][col]
}

func (g *Grid) inRange(row, col int) bool {
	return row >= 0 && row < g.resolution && col >= 0 && col < g.resolution
}

// Locate maps a projected point to its cell. Points on or outside the
// bounding box edges yield (-1, -1) and RejectedOutOfBounds.
func (g *Grid) Locate(p geo.Point) (row, col int, res Result) {
	b := g.bounds
	if !(b.Left < p.X && p.X < b.Right && b.Bottom < p.Y && p.Y < b.Top) {
		res = rejected(RejectedOutOfBounds, "point [%v, %v] not within grid", p.X, p.Y)
		g.log.Debug("heatmap: locate rejected",
			zap.Float64("x_km", p.X),
			zap.Float64("y_km", p.Y),
		)
		return -1, -1, res
	}
	row = int(math.Floor((b.Top - p.Y) / g.cellEdge))
	col = int(math.Floor((p.X - b.Left) / g.cellEdge))
	// Float division can land exactly on resolution for points a hair inside
	// the bottom or right edge.
	row = min(row, g.resolution-1)
	col = min(col, g.resolution-1)
	return row, col, accepted()
}

// AddContributionAt adds amount for category to the cell at (row, col).
func (g *Grid) AddContributionAt(row, col int, category string, amount float64) Result {
	idx, ok := g.categories.Index(category)
	if !ok {
		res := rejected(RejectedCategory, "category %q not configured", category)
		g.log.Debug("heatmap: contribution rejected", zap.String("category", category), zap.String("reason", res.Reason))
		return res
	}
	return g.addAt(row, col, idx, amount)
}

func (g *Grid) addAt(row, col, idx int, amount float64) Result {
	if !g.inRange(row, col) {
		res := rejected(RejectedIndex, "cell [%d, %d] outside %dx%d grid", row, col, g.resolution, g.resolution)
		g.log.Debug("heatmap: contribution rejected",
			zap.Int("row", row),
			zap.Int("col", col),
			zap.String("reason", res.Reason),
		)
		return res
	}
	res := g.cells[row][col].AddContribution(idx, amount)
	if !res.OK() {
		g.log.Debug("heatmap: contribution rejected",
			zap.Int("row", row),
			zap.Int("col", col),
			zap.String("category", g.categories.labels[idx]),
			zap.Float64("amount", amount),
			zap.String("reason", res.Reason),
		)
	}
	return res
}

// Evaluate computes every cell's weight in row-major order and returns the
// weights shifted down by the neutral baseline of 1.
func (g *Grid) Evaluate() Matrix {
	m := make(Matrix, g.resolution)
	for r, row := range g.cells {
		m[r] = make([]float64, g.resolution)
		for c, cell := range row {
			cell.Evaluate()
			m[r][c] = cell.Weight() - 1
		}
	}
	return m
}
