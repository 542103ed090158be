package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_AddContribution(t *testing.T) {
	tests := []struct {
		name       string
		amounts    []float64
		wantValue  float64
		wantStatus Status
	}{
		{name: "accumulates", amounts: []float64{0.3, 0.3}, wantValue: 0.6, wantStatus: Accepted},
		{name: "zero is accepted", amounts: []float64{0}, wantValue: 0, wantStatus: Accepted},
		{name: "one is accepted", amounts: []float64{1}, wantValue: 1, wantStatus: Accepted},
		{name: "sum may exceed one", amounts: []float64{1, 0.5}, wantValue: 1.5, wantStatus: Accepted},
		{name: "negative rejected", amounts: []float64{-0.1}, wantValue: 0, wantStatus: RejectedAmount},
		{name: "above one rejected", amounts: []float64{1.01}, wantValue: 0, wantStatus: RejectedAmount},
		{name: "NaN rejected", amounts: []float64{math.NaN()}, wantValue: 0, wantStatus: RejectedAmount},
		{name: "rejection keeps prior value", amounts: []float64{0.4, 2}, wantValue: 0.4, wantStatus: RejectedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCell(1, PolicySum)
			var last Result
			for _, a := range tt.amounts {
				last = c.AddContribution(0, a)
			}
			assert.Equal(t, tt.wantStatus, last.Status)
			assert.InDelta(t, tt.wantValue, c.Contribution(0), 1e-12)
		})
	}
}

func TestCell_AddContribution_UnknownIndex(t *testing.T) {
	c := newCell(2, PolicySum)
	res := c.AddContribution(2, 0.5)
	assert.Equal(t, RejectedCategory, res.Status)
	assert.NotEmpty(t, res.Reason)
	assert.Equal(t, []float64{0, 0}, c.Contributions())
}

func TestCell_PolicyMax(t *testing.T) {
	c := newCell(1, PolicyMax)
	require.True(t, c.AddContribution(0, 0.3).OK())
	require.True(t, c.AddContribution(0, 0.2).OK())
	assert.InDelta(t, 0.3, c.Contribution(0), 1e-12)
	require.True(t, c.AddContribution(0, 0.8).OK())
	assert.InDelta(t, 0.8, c.Contribution(0), 1e-12)
	assert.Equal(t, RejectedAmount, c.AddContribution(0, 1.5).Status)
}

func TestCell_Evaluate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "product of halves", values: []float64{0.5, 0.5}, want: 1.189},
		{name: "zero short-circuits", values: []float64{0, 0.7}, want: 1},
		{name: "zero after positives", values: []float64{0.9, 0.8, 0}, want: 1},
		{name: "full coverage", values: []float64{1, 1}, want: 2},
		{name: "above one is ignored", values: []float64{0.5, 1.5}, want: 1.414},
		{name: "all above one", values: []float64{3, 1.2}, want: 2},
		{name: "no categories", values: []float64{}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCell(len(tt.values), PolicySum)
			copy(c.values, tt.values)
			c.Evaluate()
			assert.Equal(t, tt.want, c.Weight())
		})
	}
}

func TestCell_AboveOneMatchesOmission(t *testing.T) {
	with := newCell(2, PolicySum)
	copy(with.values, []float64{0.5, 1.5})
	with.Evaluate()

	without := newCell(1, PolicySum)
	without.values[0] = 0.5
	without.Evaluate()

	assert.Equal(t, without.Weight(), with.Weight())
}

func TestCell_WeightDefault(t *testing.T) {
	c := newCell(3, PolicySum)
	assert.Equal(t, 1.0, c.Weight())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySum, p)

	p, err = ParsePolicy("MAX")
	require.NoError(t, err)
	assert.Equal(t, PolicyMax, p)
	assert.Equal(t, "max", p.String())

	_, err = ParsePolicy("median")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "median")
}
