package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/homeforyou/internal/config"
	"github.com/sells-group/homeforyou/internal/heatmap"
	"github.com/sells-group/homeforyou/internal/metrics"
	"github.com/sells-group/homeforyou/internal/pipeline"
	"github.com/sells-group/homeforyou/internal/places"
)

var (
	servePort    int
	serveFixture string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the heatmap HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		base, err := newSource(cfg, serveFixture)
		if err != nil {
			return err
		}
		src := places.NewCachedSource(base, cfg.Places.CacheSize, time.Duration(cfg.Places.CacheTTLMins)*time.Minute)
		p := pipeline.New(src, cfg.Places.Concurrency)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(p, cfg.Heatmap, metrics.NewRecorder()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("source", src.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveFixture, "fixture", "", "serve places from a YAML fixture instead of Google")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(p *pipeline.Pipeline, defaults config.HeatmapConfig, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", rec.Handler())
	r.Get("/v1/heatmap", heatmapHandler(p, defaults, rec))

	return r
}

func heatmapHandler(p *pipeline.Pipeline, defaults config.HeatmapConfig, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, format, err := heatmapRequest(r, defaults)
		if err != nil {
			rec.RunFailed(metrics.StatusBadRequest)
			writeError(w, http.StatusBadRequest, err)
			return
		}

		report, err := p.Run(r.Context(), req)
		if err != nil {
			var reqErr *pipeline.RequestError
			if errors.As(err, &reqErr) {
				rec.RunFailed(metrics.StatusBadRequest)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			rec.RunFailed(metrics.StatusFailed)
			zap.L().Error("heatmap request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusBadGateway, err)
			return
		}

		failed := make([]string, len(report.Failed))
		for i, f := range report.Failed {
			failed[i] = f.Category
		}
		rec.RunCompleted(time.Duration(report.ElapsedMS)*time.Millisecond, report.Stats, failed)

		if format == "geojson" {
			fc, err := report.GeoJSON()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			w.Header().Set("Content-Type", "application/geo+json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(fc)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// heatmapRequest reads query parameters over the configured defaults.
func heatmapRequest(r *http.Request, defaults config.HeatmapConfig) (pipeline.Request, string, error) {
	q := r.URL.Query()

	req := pipeline.Request{
		Origin:       defaults.Origin.Coord(),
		RadiusKM:     defaults.RadiusKM,
		Resolution:   defaults.Resolution,
		Categories:   defaults.Categories,
		AllowPartial: q.Get("allow_partial") == "true",
	}

	var err error
	if req.Origin.Lat, err = floatParam(q.Get("lat"), req.Origin.Lat); err != nil {
		return req, "", eris.Wrap(err, "lat")
	}
	if req.Origin.Lon, err = floatParam(q.Get("lon"), req.Origin.Lon); err != nil {
		return req, "", eris.Wrap(err, "lon")
	}
	if req.RadiusKM, err = floatParam(q.Get("radius_km"), req.RadiusKM); err != nil {
		return req, "", eris.Wrap(err, "radius_km")
	}
	if v := q.Get("resolution"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, "", eris.Wrap(err, "resolution")
		}
		if limit := defaults.ResolutionLimit(); n > limit {
			return req, "", eris.Errorf("resolution %d exceeds maximum %d", n, limit)
		}
		req.Resolution = n
	}
	if v := q.Get("categories"); v != "" {
		req.Categories = nil
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				req.Categories = append(req.Categories, c)
			}
		}
	}

	policy := defaults.Policy
	if v := q.Get("policy"); v != "" {
		policy = v
	}
	req.Policy, err = heatmap.ParsePolicy(policy)
	if err != nil {
		return req, "", err
	}

	format := q.Get("format")
	if format == "" {
		format = "json"
	}
	if err := checkFormat(format, "json", "geojson"); err != nil {
		return req, "", err
	}

	return req, format, nil
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
