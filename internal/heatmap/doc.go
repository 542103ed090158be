// Package heatmap scores the desirability of locations around an origin.
//
// A Grid is laid over a square box of side 2*radius centered on the
// projected origin. Each observed point of interest adds a contribution to
// the cell it falls in and a decayed contribution to nearby cells. After all
// observations are applied every cell is evaluated to a weight in [1, 2]:
// a cell scores above baseline only when every configured category has some
// presence there.
package heatmap
