package heatmap

import (
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/geo"
)

// PlaceSet is the observed points of interest for one category.
type PlaceSet struct {
	Category string      `json:"category"`
	Coords   []geo.Coord `json:"coords"`
}

// Stats counts what a scorer did with its observations.
type Stats struct {
	Observations int            `json:"observations"`
	Applied      int            `json:"applied"`
	Rejected     map[string]int `json:"rejected,omitempty"`
	CellWrites   int            `json:"cell_writes"`
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(log *zap.Logger) ScorerOption {
	return func(s *Scorer) {
		if log != nil {
			s.log = log
		}
	}
}

// Scorer drives one scoring run over a grid it owns exclusively. It is not
// safe for concurrent use.
type Scorer struct {
	grid   *Grid
	log    *zap.Logger
	stats  Stats
	result Matrix
}

// NewScorer constructs the grid for a run.
func NewScorer(opts Options, sopts ...ScorerOption) (*Scorer, error) {
	s := &Scorer{log: zap.NewNop()}
	for _, o := range sopts {
		o(s)
	}
	g, err := NewGrid(opts, s.log)
	if err != nil {
		return nil, err
	}
	s.grid = g
	s.stats.Rejected = make(map[string]int)
	return s, nil
}

// Grid returns the scorer's grid.
func (s *Scorer) Grid() *Grid { return s.grid }

// Observe projects c and applies it as one observation of category.
// Observations after Evaluate are rejected.
func (s *Scorer) Observe(category string, c geo.Coord) Result {
	s.stats.Observations++
	if s.result != nil {
		res := rejected(RejectedFinalized, "grid already evaluated")
		s.stats.Rejected[res.Status.String()]++
		return res
	}
	writes, res := s.grid.ApplyObservation(category, geo.Project(c))
	if !res.OK() {
		s.stats.Rejected[res.Status.String()]++
		return res
	}
	s.stats.Applied++
	s.stats.CellWrites += writes
	return res
}

// ObserveAll applies every coordinate in set.
func (s *Scorer) ObserveAll(set PlaceSet) {
	for _, c := range set.Coords {
		s.Observe(set.Category, c)
	}
}

// Evaluate finalizes the grid and returns the weight matrix. Later calls
// return a copy of the same matrix.
func (s *Scorer) Evaluate() Matrix {
	if s.result == nil {
		s.result = s.grid.Evaluate()
		s.log.Debug("heatmap: grid evaluated",
			zap.Int("resolution", s.grid.Resolution()),
			zap.Int("applied", s.stats.Applied),
			zap.Int("cell_writes", s.stats.CellWrites),
		)
	}
	return s.result.Clone()
}

// Run applies every place set in order and evaluates the grid.
func (s *Scorer) Run(sets []PlaceSet) Matrix {
	for _, set := range sets {
		s.ObserveAll(set)
	}
	return s.Evaluate()
}

// Stats returns a snapshot of the run counters.
func (s *Scorer) Stats() Stats {
	out := s.stats
	out.Rejected = make(map[string]int, len(s.stats.Rejected))
	for k, v := range s.stats.Rejected {
		out.Rejected[k] = v
	}
	return out
}
