package places

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/geo"
)

// CachedSource memoizes another Source per category and area.
type CachedSource struct {
	next  Source
	cache *expirable.LRU[string, []geo.Coord]
}

// NewCachedSource wraps next with an LRU of size entries expiring after ttl.
func NewCachedSource(next Source, size int, ttl time.Duration) *CachedSource {
	if size <= 0 {
		size = 256
	}
	return &CachedSource{
		next:  next,
		cache: expirable.NewLRU[string, []geo.Coord](size, nil, ttl),
	}
}

// Name implements Source.
func (s *CachedSource) Name() string { return s.next.Name() + "+cache" }

// Fetch implements Source. Errors are not cached.
func (s *CachedSource) Fetch(ctx context.Context, category string, area Area) ([]geo.Coord, error) {
	key := cacheKey(category, area)
	if coords, ok := s.cache.Get(key); ok {
		zap.L().Debug("places: cache hit", zap.String("key", key))
		return append([]geo.Coord(nil), coords...), nil
	}

	coords, err := s.next.Fetch(ctx, category, area)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, append([]geo.Coord(nil), coords...))
	return coords, nil
}

// Len returns the number of cached entries.
func (s *CachedSource) Len() int { return s.cache.Len() }

// Coordinates are keyed at ~1 m precision.
func cacheKey(category string, area Area) string {
	return fmt.Sprintf("%s|%.5f|%.5f|%.3f", category, area.Center.Lat, area.Center.Lon, area.RadiusKM)
}
