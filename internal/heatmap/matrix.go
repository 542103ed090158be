package heatmap

import (
	"math"
	"strconv"
	"strings"
)

// Matrix holds evaluated weights indexed [row][col]. A value of 0 means no
// signal; values approach 1 as every category reaches full coverage.
type Matrix [][]float64

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Max returns the largest value, or 0 for an empty matrix.
func (m Matrix) Max() float64 {
	best := 0.0
	for _, row := range m {
		for _, v := range row {
			best = math.Max(best, v)
		}
	}
	return best
}

// Sum returns the total of all values.
func (m Matrix) Sum() float64 {
	total := 0.0
	for _, row := range m {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Text renders each value truncated to one decimal, tab separated, one row
// per line.
func (m Matrix) Text() string {
	var b strings.Builder
	for _, row := range m {
		for _, v := range row {
			b.WriteString(strconv.FormatFloat(math.Trunc(v*10)/10, 'f', 1, 64))
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
