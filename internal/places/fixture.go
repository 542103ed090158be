package places

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/homeforyou/internal/geo"
)

// fixtureFile is the on-disk layout read by LoadFixture:
//
//	places:
//	  gym:
//	    - {lat: 18.5101, lon: 73.8472}
type fixtureFile struct {
	Places map[string][]geo.Coord `yaml:"places"`
}

// FixtureSource serves fixed coordinates per category. It ignores the
// requested area; points outside the grid are rejected by the scorer.
type FixtureSource struct {
	places map[string][]geo.Coord
}

// NewFixtureSource creates a FixtureSource from in-memory data.
func NewFixtureSource(places map[string][]geo.Coord) *FixtureSource {
	if places == nil {
		places = make(map[string][]geo.Coord)
	}
	return &FixtureSource{places: places}
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "places: read fixture %s", path)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "places: parse fixture %s", path)
	}
	return NewFixtureSource(f.Places), nil
}

// Name implements Source.
func (s *FixtureSource) Name() string { return "fixture" }

// Fetch implements Source.
func (s *FixtureSource) Fetch(ctx context.Context, category string, _ Area) ([]geo.Coord, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "places: fixture fetch")
	}
	return append([]geo.Coord(nil), s.places[category]...), nil
}
