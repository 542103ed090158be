package heatmap

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/homeforyou/internal/geo"
)

// CellPolygon returns the cell's outline in geographic coordinates as a
// closed ring ordered SW, SE, NE, NW.
func (g *Grid) CellPolygon(row, col int) (*geom.Polygon, error) {
	if !g.inRange(row, col) {
		return nil, eris.Errorf("heatmap: cell [%d, %d] outside %dx%d grid", row, col, g.resolution, g.resolution)
	}
	west := g.bounds.Left + float64(col)*g.cellEdge
	east := west + g.cellEdge
	north := g.bounds.Top - float64(row)*g.cellEdge
	south := north - g.cellEdge

	corner := func(x, y float64) geom.Coord {
		c := geo.Unproject(geo.Point{X: x, Y: y})
		return geom.Coord{c.Lon, c.Lat}
	}
	ring := []geom.Coord{
		corner(west, south),
		corner(east, south),
		corner(east, north),
		corner(west, north),
		corner(west, south),
	}

	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, eris.Wrapf(err, "heatmap: build polygon for cell [%d, %d]", row, col)
	}
	return poly.SetSRID(4326), nil
}

// FeatureCollection exports m as one polygon feature per cell carrying its
// row, column, weight and per-category contributions.
func (g *Grid) FeatureCollection(m Matrix) (*geojson.FeatureCollection, error) {
	if len(m) != g.resolution {
		return nil, eris.Errorf("heatmap: matrix has %d rows, grid has %d", len(m), g.resolution)
	}

	labels := g.categories.labels
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, g.resolution*g.resolution),
	}
	for r := 0; r < g.resolution; r++ {
		if len(m[r]) != g.resolution {
			return nil, eris.Errorf("heatmap: matrix row %d has %d columns, grid has %d", r, len(m[r]), g.resolution)
		}
		for c := 0; c < g.resolution; c++ {
			poly, err := g.CellPolygon(r, c)
			if err != nil {
				return nil, err
			}
			contrib := make(map[string]any, len(labels))
			for i, v := range g.cells[r][c].values {
				contrib[labels[i]] = v
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				Geometry: poly,
				Properties: map[string]any{
					"row":           r,
					"col":           c,
					"weight":        m[r][c],
					"contributions": contrib,
				},
			})
		}
	}
	return fc, nil
}
