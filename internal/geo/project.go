// Package geo provides the planar projection used to lay grids over small areas.
package geo

import "math"

// Projection constants (kilometers per degree).
const (
	KMPerDegreeLat = 110.574 // constant along a meridian
	KMPerDegreeLon = 111.32  // at the equator, scaled by cos(latitude)
)

// Coord is a geographic position in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the coordinate is finite and within WGS84 ranges.
func (c Coord) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Point is a planar offset in kilometers from the equator (Y) and the
// prime meridian (X).
type Point struct {
	X float64
	Y float64
}

// Project converts a coordinate to planar kilometers using a small-angle
// approximation. It is accurate only over extents of a few kilometers.
func Project(c Coord) Point {
	return Point{
		X: c.Lon * KMPerDegreeLon * math.Cos(c.Lat*math.Pi/180),
		Y: c.Lat * KMPerDegreeLat,
	}
}

// Unproject inverts Project. Longitude is undefined at the poles; there the
// result carries Lon = 0.
func Unproject(p Point) Coord {
	lat := p.Y / KMPerDegreeLat
	scale := KMPerDegreeLon * math.Cos(lat*math.Pi/180)
	if scale == 0 {
		return Coord{Lat: lat}
	}
	return Coord{Lat: lat, Lon: p.X / scale}
}
