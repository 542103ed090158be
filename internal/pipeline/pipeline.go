// Package pipeline runs one desirability scoring request end to end: fetch
// places per category, accumulate them on a grid and evaluate the weights.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/geo"
	"github.com/sells-group/homeforyou/internal/heatmap"
	"github.com/sells-group/homeforyou/internal/places"
)

// Request describes one scoring run.
type Request struct {
	Origin       geo.Coord
	RadiusKM     float64
	Resolution   int
	Categories   []string
	Policy       heatmap.Policy
	AllowPartial bool
}

// Report is the outcome of a run.
type Report struct {
	RunID      string           `json:"run_id"`
	Origin     geo.Coord        `json:"origin"`
	RadiusKM   float64          `json:"radius_km"`
	Resolution int              `json:"resolution"`
	CellEdgeKM float64          `json:"cell_edge_km"`
	Policy     string           `json:"policy"`
	Categories []string         `json:"categories"`
	Matrix     heatmap.Matrix   `json:"matrix"`
	Stats      heatmap.Stats    `json:"stats"`
	Failed     []places.Failure `json:"failed,omitempty"`
	Source     string           `json:"source"`
	ElapsedMS  int64            `json:"elapsed_ms"`

	grid *heatmap.Grid
}

// GeoJSON exports the report's matrix as cell polygons.
func (r *Report) GeoJSON() (*geojson.FeatureCollection, error) {
	if r.grid == nil {
		return nil, eris.New("pipeline: report has no grid")
	}
	return r.grid.FeatureCollection(r.Matrix)
}

// RequestError reports a request rejected before any place was fetched.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return "pipeline: invalid request: " + e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// Pipeline binds a place source to the heatmap scorer.
type Pipeline struct {
	src         places.Source
	concurrency int
}

// New creates a Pipeline. concurrency bounds parallel category fetches.
func New(src places.Source, concurrency int) *Pipeline {
	return &Pipeline{src: src, concurrency: concurrency}
}

// Run executes req. The grid is built before any fetch so invalid requests
// never reach the source.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	if !req.Origin.Valid() {
		return nil, &RequestError{Err: eris.Errorf("invalid origin %v,%v", req.Origin.Lat, req.Origin.Lon)}
	}

	scorer, err := heatmap.NewScorer(heatmap.Options{
		Origin:     req.Origin,
		RadiusKM:   req.RadiusKM,
		Resolution: req.Resolution,
		Categories: req.Categories,
		Policy:     req.Policy,
	}, heatmap.WithLogger(log.Named("heatmap")))
	if err != nil {
		return nil, &RequestError{Err: eris.Wrap(err, "build grid")}
	}
	grid := scorer.Grid()

	log.Info("pipeline: run started",
		zap.Float64("lat", req.Origin.Lat),
		zap.Float64("lon", req.Origin.Lon),
		zap.Float64("radius_km", req.RadiusKM),
		zap.Int("resolution", grid.Resolution()),
		zap.Strings("categories", req.Categories),
		zap.String("source", p.src.Name()),
	)

	area := places.Area{Center: req.Origin, RadiusKM: req.RadiusKM}
	coll, err := places.Collect(ctx, p.src, req.Categories, area, places.CollectOptions{
		Concurrency:  p.concurrency,
		AllowPartial: req.AllowPartial,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: collect places")
	}

	matrix := scorer.Run(coll.Sets)
	stats := scorer.Stats()

	report := &Report{
		RunID:      runID,
		Origin:     req.Origin,
		RadiusKM:   req.RadiusKM,
		Resolution: grid.Resolution(),
		CellEdgeKM: grid.CellEdge(),
		Policy:     grid.Policy().String(),
		Categories: grid.Categories().Labels(),
		Matrix:     matrix,
		Stats:      stats,
		Failed:     coll.Failed,
		Source:     p.src.Name(),
		ElapsedMS:  time.Since(start).Milliseconds(),
		grid:       grid,
	}

	log.Info("pipeline: run complete",
		zap.Int("observations", stats.Observations),
		zap.Int("applied", stats.Applied),
		zap.Int("failed_categories", len(coll.Failed)),
		zap.Float64("max_weight", matrix.Max()),
		zap.Int64("elapsed_ms", report.ElapsedMS),
	)

	return report, nil
}
