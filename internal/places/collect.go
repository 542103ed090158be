package places

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/homeforyou/internal/heatmap"
)

// CollectOptions configures Collect.
type CollectOptions struct {
	// Concurrency bounds parallel category fetches. Default: 4.
	Concurrency int
	// AllowPartial records per-category failures instead of failing the
	// whole collection.
	AllowPartial bool
}

// Failure describes a category that could not be fetched.
type Failure struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}

// Collection is the fetched place sets in category order.
type Collection struct {
	Sets   []heatmap.PlaceSet
	Failed []Failure
}

// Collect fetches every category from src concurrently. The returned sets
// follow the order of categories regardless of completion order.
func Collect(ctx context.Context, src Source, categories []string, area Area, opts CollectOptions) (*Collection, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	sets := make([]heatmap.PlaceSet, len(categories))
	errs := make([]error, len(categories))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)

	for i, category := range categories {
		eg.Go(func() error {
			coords, err := src.Fetch(gCtx, category, area)
			if err != nil {
				err = eris.Wrapf(err, "places: fetch %s from %s", category, src.Name())
				if opts.AllowPartial {
					errs[i] = err
					return nil
				}
				return err
			}
			sets[i] = heatmap.PlaceSet{Category: category, Coords: coords}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Collection{Sets: make([]heatmap.PlaceSet, 0, len(categories))}
	for i, category := range categories {
		if errs[i] != nil {
			zap.L().Warn("places: category fetch failed",
				zap.String("category", category),
				zap.Error(errs[i]),
			)
			out.Failed = append(out.Failed, Failure{Category: category, Error: errs[i].Error()})
			continue
		}
		out.Sets = append(out.Sets, sets[i])
	}
	return out, nil
}
