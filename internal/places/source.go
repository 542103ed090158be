// Package places supplies point-of-interest coordinates per category to the
// heatmap scorer.
package places

import (
	"context"
	"math"

	"github.com/sells-group/homeforyou/internal/geo"
)

// Source yields the coordinates of points of interest matching a category
// within an area.
type Source interface {
	Name() string
	Fetch(ctx context.Context, category string, area Area) ([]geo.Coord, error)
}

// Area is the square search box of half-width RadiusKM around Center.
type Area struct {
	Center   geo.Coord
	RadiusKM float64
}

// Rect returns the south-west and north-east corners of the smallest
// geographic rectangle that contains the projected box.
func (a Area) Rect() (sw, ne geo.Coord) {
	c := geo.Project(a.Center)
	r := a.RadiusKM

	lowLeft := geo.Unproject(geo.Point{X: c.X - r, Y: c.Y - r})
	topLeft := geo.Unproject(geo.Point{X: c.X - r, Y: c.Y + r})
	lowRight := geo.Unproject(geo.Point{X: c.X + r, Y: c.Y - r})
	topRight := geo.Unproject(geo.Point{X: c.X + r, Y: c.Y + r})

	sw = geo.Coord{Lat: lowLeft.Lat, Lon: math.Min(lowLeft.Lon, topLeft.Lon)}
	ne = geo.Coord{Lat: topRight.Lat, Lon: math.Max(lowRight.Lon, topRight.Lon)}
	return sw, ne
}
