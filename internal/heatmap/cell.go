package heatmap

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Policy decides how a new contribution combines with the stored value.
type Policy int

// Accumulation policies.
const (
	PolicySum Policy = iota // add to the stored value
	PolicyMax               // keep the larger of stored and new
)

// ParsePolicy parses "sum" or "max". The empty string selects PolicySum.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return PolicySum, nil
	case "max":
		return PolicyMax, nil
	default:
		return PolicySum, eris.Errorf("heatmap: unknown accumulation policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyMax {
		return "max"
	}
	return "sum"
}

// Cell holds one grid square's per-category contributions.
type Cell struct {
	values []float64
	policy Policy
	weight float64
}

func newCell(categories int, policy Policy) *Cell {
	return &Cell{
		values: make([]float64, categories),
		policy: policy,
		weight: 1,
	}
}

// AddContribution records amount for the category at index i. Amounts
// outside [0, 1] are rejected. The check applies to each increment, so the
// stored sum may exceed 1 under PolicySum.
func (c *Cell) AddContribution(i int, amount float64) Result {
	if i < 0 || i >= len(c.values) {
		return rejected(RejectedCategory, "category index %d not in [0, %d)", i, len(c.values))
	}
	if !(amount >= 0 && amount <= 1) {
		return rejected(RejectedAmount, "amount %v not in [0, 1]", amount)
	}
	switch c.policy {
	case PolicyMax:
		if amount > c.values[i] {
			c.values[i] = amount
		}
	default:
		c.values[i] += amount
	}
	return accepted()
}

// Contribution returns the accumulated value for the category at index i.
func (c *Cell) Contribution(i int) float64 {
	if i < 0 || i >= len(c.values) {
		return 0
	}
	return c.values[i]
}

// Contributions returns a copy of all accumulated values in category order.
func (c *Cell) Contributions() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// Evaluate derives the cell weight as 2^exponent. Any value <= 0 zeroes the
// exponent; values in (0, 1] multiply into it; values above 1 are skipped.
func (c *Cell) Evaluate() {
	exponent := 1.0
	for _, v := range c.values {
		if v <= 0 {
			exponent = 0
			break
		}
		if v <= 1 {
			exponent *= v
		}
	}
	c.weight = math.Pow(2, exponent)
}

// Weight returns the evaluated weight rounded to three decimals. Before
// Evaluate it is 1.
func (c *Cell) Weight() float64 {
	return math.Round(c.weight*1000) / 1000
}
