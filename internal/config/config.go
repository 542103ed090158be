package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/homeforyou/internal/geo"
	"github.com/sells-group/homeforyou/internal/heatmap"
)

// Config holds the full application configuration.
type Config struct {
	Heatmap HeatmapConfig `yaml:"heatmap" mapstructure:"heatmap"`
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Places  PlacesConfig  `yaml:"places" mapstructure:"places"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// HeatmapConfig holds the default grid for scoring runs.
type HeatmapConfig struct {
	RadiusKM   float64      `yaml:"radius_km" mapstructure:"radius_km"`
	Resolution int          `yaml:"resolution" mapstructure:"resolution"`
	// MaxResolution caps the resolution a request may ask for.
	MaxResolution int `yaml:"max_resolution" mapstructure:"max_resolution"`
	Policy     string       `yaml:"policy" mapstructure:"policy"`
	Categories []string     `yaml:"categories" mapstructure:"categories"`
	Origin     OriginConfig `yaml:"origin" mapstructure:"origin"`
}

// ResolutionLimit returns MaxResolution, or the grid's hard limit when unset.
func (h HeatmapConfig) ResolutionLimit() int {
	if h.MaxResolution <= 0 {
		return heatmap.MaxResolution
	}
	return h.MaxResolution
}

// OriginConfig is the default grid center.
type OriginConfig struct {
	Lat float64 `yaml:"lat" mapstructure:"lat"`
	Lon float64 `yaml:"lon" mapstructure:"lon"`
}

// Coord returns the origin as a geo.Coord.
func (o OriginConfig) Coord() geo.Coord {
	return geo.Coord{Lat: o.Lat, Lon: o.Lon}
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	GeocodeURL  string  `yaml:"geocode_url" mapstructure:"geocode_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	MaxPages    int     `yaml:"max_pages" mapstructure:"max_pages"`
	MaxResults  int     `yaml:"max_results" mapstructure:"max_results"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PlacesConfig configures place fetching. A non-empty Fixture replaces the
// Google source with a YAML file.
type PlacesConfig struct {
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
	CacheSize    int    `yaml:"cache_size" mapstructure:"cache_size"`
	CacheTTLMins int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	Fixture      string `yaml:"fixture" mapstructure:"fixture"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HOMEFORYOU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("heatmap.radius_km", 2.0)
	v.SetDefault("heatmap.resolution", 11)
	v.SetDefault("heatmap.max_resolution", 201)
	v.SetDefault("heatmap.policy", "sum")
	v.SetDefault("heatmap.categories", []string{"shopping_mall", "park", "gym"})
	v.SetDefault("heatmap.origin.lat", 18.509458)
	v.SetDefault("heatmap.origin.lon", 73.847296)
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.geocode_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("google.rate_limit", 10.0)
	v.SetDefault("google.max_pages", 3)
	v.SetDefault("google.max_results", 20)
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("places.concurrency", 4)
	v.SetDefault("places.cache_size", 256)
	v.SetDefault("places.cache_ttl_mins", 30)
	v.SetDefault("places.fixture", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by mode: "score", "serve", or
// "google" (live place lookups).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "score":
		errs = append(errs, c.validateHeatmap()...)
	case "serve":
		errs = append(errs, c.validateHeatmap()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "google":
		if c.Google.Key == "" {
			errs = append(errs, "google.key is required")
		}
		if c.Google.RateLimit <= 0 {
			errs = append(errs, "google.rate_limit must be > 0")
		}
		if c.Google.MaxResults <= 0 {
			errs = append(errs, "google.max_results must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateHeatmap() []string {
	var errs []string
	h := c.Heatmap
	if h.RadiusKM <= 0 {
		errs = append(errs, "heatmap.radius_km must be > 0")
	}
	if h.Resolution <= 0 {
		errs = append(errs, "heatmap.resolution must be > 0")
	}
	if h.MaxResolution < 1 || h.MaxResolution > heatmap.MaxResolution {
		errs = append(errs, fmt.Sprintf("heatmap.max_resolution must be between 1 and %d", heatmap.MaxResolution))
	} else if h.Resolution > h.MaxResolution {
		errs = append(errs, "heatmap.resolution must be <= heatmap.max_resolution")
	}
	if len(h.Categories) == 0 {
		errs = append(errs, "heatmap.categories must not be empty")
	}
	if _, err := heatmap.ParsePolicy(h.Policy); err != nil {
		errs = append(errs, "heatmap.policy must be sum or max")
	}
	if !h.Origin.Coord().Valid() {
		errs = append(errs, "heatmap.origin is not a valid coordinate")
	}
	if c.Places.Concurrency < 1 || c.Places.Concurrency > 32 {
		errs = append(errs, "places.concurrency must be between 1 and 32")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
