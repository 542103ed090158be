package places

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/homeforyou/internal/geo"
	"github.com/sells-group/homeforyou/pkg/google"
)

const (
	defaultRateLimit  = 10
	defaultMaxPages   = 3
	defaultMaxResults = 20
)

// GoogleConfig tunes a GoogleSource. Zero values select defaults.
type GoogleConfig struct {
	RateLimit  float64
	MaxPages   int
	MaxResults int
}

// GoogleSource fetches places by type from the Google Places API, following
// page tokens until MaxResults coordinates are collected.
type GoogleSource struct {
	client     google.Client
	limiter    *rate.Limiter
	maxPages   int
	maxResults int
}

// NewGoogleSource creates a GoogleSource.
func NewGoogleSource(c google.Client, cfg GoogleConfig) *GoogleSource {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &GoogleSource{
		client:     c,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		maxPages:   cfg.MaxPages,
		maxResults: cfg.MaxResults,
	}
}

// Name implements Source.
func (s *GoogleSource) Name() string { return "google" }

// Fetch implements Source.
func (s *GoogleSource) Fetch(ctx context.Context, category string, area Area) ([]geo.Coord, error) {
	log := zap.L().With(zap.String("source", "google"), zap.String("category", category))

	sw, ne := area.Rect()
	req := google.DiscoverySearchRequest{
		TextQuery:           strings.ReplaceAll(category, "_", " "),
		IncludedType:        category,
		StrictTypeFiltering: true,
		PageSize:            s.maxResults,
		LocationRestriction: &google.LocationRect{
			Rectangle: google.Rectangle{
				Low:  google.LatLng{Latitude: sw.Lat, Longitude: sw.Lon},
				High: google.LatLng{Latitude: ne.Lat, Longitude: ne.Lon},
			},
		},
	}

	var coords []geo.Coord
	for page := 0; page < s.maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return coords, eris.Wrap(err, "places: rate limit wait")
		}

		resp, err := s.client.DiscoverySearch(ctx, req)
		if err != nil {
			return coords, eris.Wrapf(err, "places: search %s page %d", category, page+1)
		}

		for _, p := range resp.Places {
			if p.Location == nil {
				log.Debug("skipping place without location", zap.String("place_id", p.ID))
				continue
			}
			coords = append(coords, geo.Coord{Lat: p.Location.Latitude, Lon: p.Location.Longitude})
			if len(coords) >= s.maxResults {
				return coords, nil
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		req.PageToken = resp.NextPageToken
	}

	log.Debug("fetched places", zap.Int("count", len(coords)))
	return coords, nil
}
