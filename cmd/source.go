package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/config"
	"github.com/sells-group/homeforyou/internal/geo"
	"github.com/sells-group/homeforyou/internal/places"
	"github.com/sells-group/homeforyou/pkg/geocode"
	"github.com/sells-group/homeforyou/pkg/google"
)

// newSource returns a fixture source when a fixture path is set, otherwise
// the Google Places source.
func newSource(c *config.Config, fixture string) (places.Source, error) {
	if fixture == "" {
		fixture = c.Places.Fixture
	}
	if fixture != "" {
		zap.L().Info("using fixture places", zap.String("path", fixture))
		return places.LoadFixture(fixture)
	}

	if err := c.Validate("google"); err != nil {
		return nil, err
	}
	client := google.NewClient(c.Google.Key,
		google.WithBaseURL(c.Google.BaseURL),
		google.WithTimeout(time.Duration(c.Google.TimeoutSecs)*time.Second),
	)
	return places.NewGoogleSource(client, places.GoogleConfig{
		RateLimit:  c.Google.RateLimit,
		MaxPages:   c.Google.MaxPages,
		MaxResults: c.Google.MaxResults,
	}), nil
}

func newGeocoder(c *config.Config) (geocode.Client, error) {
	if err := c.Validate("google"); err != nil {
		return nil, err
	}
	return geocode.NewClient(c.Google.Key,
		geocode.WithBaseURL(c.Google.GeocodeURL),
		geocode.WithRateLimit(c.Google.RateLimit),
	), nil
}

// resolveAddress geocodes address to a grid origin.
func resolveAddress(ctx context.Context, gc geocode.Client, address string) (geo.Coord, error) {
	res, err := gc.Geocode(ctx, address)
	if err != nil {
		return geo.Coord{}, err
	}
	if !res.Matched {
		return geo.Coord{}, eris.Errorf("geocode: no match for %q", address)
	}
	zap.L().Info("resolved address",
		zap.String("address", address),
		zap.String("formatted", res.FormattedAddress),
		zap.String("quality", res.Quality),
	)
	return geo.Coord{Lat: res.Latitude, Lon: res.Longitude}, nil
}
