package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/homeforyou/internal/config"
	"github.com/sells-group/homeforyou/internal/geo"
	"github.com/sells-group/homeforyou/internal/heatmap"
	"github.com/sells-group/homeforyou/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the grid around a location and print the weight matrix",
	Example: `  homeforyou score --lat 18.509458 --lon 73.847296 --category gym --category park
  homeforyou score --address "Koregaon Park, Pune" --radius-km 3
  homeforyou score --fixture places.yaml --format geojson > heatmap.geojson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}

		req, err := scoreRequest(cmd, cfg.Heatmap)
		if err != nil {
			return err
		}
		if address, _ := cmd.Flags().GetString("address"); address != "" {
			gc, err := newGeocoder(cfg)
			if err != nil {
				return err
			}
			if req.Origin, err = resolveAddress(cmd.Context(), gc, address); err != nil {
				return err
			}
		}
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "text", "json", "geojson"); err != nil {
			return err
		}

		fixture, _ := cmd.Flags().GetString("fixture")
		src, err := newSource(cfg, fixture)
		if err != nil {
			return err
		}

		report, err := pipeline.New(src, cfg.Places.Concurrency).Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), report, format)
	},
}

func init() {
	registerScoreFlags(scoreCmd)
	rootCmd.AddCommand(scoreCmd)
}

func registerScoreFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", 0, "grid center latitude (default from config)")
	cmd.Flags().Float64("lon", 0, "grid center longitude (default from config)")
	cmd.Flags().String("address", "", "geocode this address as the grid center instead of --lat/--lon")
	cmd.Flags().Float64("radius-km", 0, "half-width of the grid in km (default from config)")
	cmd.Flags().Int("resolution", 0, "cells per side, raised to odd (default from config)")
	cmd.Flags().StringArray("category", nil, "place type to score; repeatable (default from config)")
	cmd.Flags().String("policy", "", "contribution policy: sum or max (default from config)")
	cmd.Flags().String("fixture", "", "read places from a YAML fixture instead of Google")
	cmd.Flags().String("format", "text", "output format: text, json, or geojson")
	cmd.Flags().Bool("allow-partial", false, "score with the categories that could be fetched")
}

// scoreRequest merges changed flags over the configured defaults.
func scoreRequest(cmd *cobra.Command, h config.HeatmapConfig) (pipeline.Request, error) {
	flags := cmd.Flags()

	req := pipeline.Request{
		Origin:     h.Origin.Coord(),
		RadiusKM:   h.RadiusKM,
		Resolution: h.Resolution,
		Categories: h.Categories,
	}
	policy := h.Policy

	if flags.Changed("lat") {
		req.Origin.Lat, _ = flags.GetFloat64("lat")
	}
	if flags.Changed("lon") {
		req.Origin.Lon, _ = flags.GetFloat64("lon")
	}
	if flags.Changed("radius-km") {
		req.RadiusKM, _ = flags.GetFloat64("radius-km")
	}
	if flags.Changed("resolution") {
		req.Resolution, _ = flags.GetInt("resolution")
		if limit := h.ResolutionLimit(); req.Resolution > limit {
			return req, eris.Errorf("score: resolution %d exceeds maximum %d", req.Resolution, limit)
		}
	}
	if flags.Changed("category") {
		req.Categories, _ = flags.GetStringArray("category")
	}
	if flags.Changed("policy") {
		policy, _ = flags.GetString("policy")
	}
	req.AllowPartial, _ = flags.GetBool("allow-partial")

	p, err := heatmap.ParsePolicy(policy)
	if err != nil {
		return req, err
	}
	req.Policy = p

	if !req.Origin.Valid() {
		return req, eris.Errorf("score: invalid location %v,%v", req.Origin.Lat, req.Origin.Lon)
	}
	return req, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return eris.Errorf("unsupported format %q (want %s)", format, strings.Join(allowed, ", "))
}

// writeReport renders report as text, json, or geojson.
func writeReport(w io.Writer, report *pipeline.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "geojson":
		fc, err := report.GeoJSON()
		if err != nil {
			return err
		}
		return json.NewEncoder(w).Encode(fc)
	case "text", "":
		_, err := fmt.Fprintf(w, "%s\n%s", reportHeader(report), report.Matrix.Text())
		return err
	default:
		return checkFormat(format, "text", "json", "geojson")
	}
}

func reportHeader(report *pipeline.Report) string {
	title := cases.Title(language.English)
	names := make([]string, len(report.Categories))
	for i, c := range report.Categories {
		names[i] = title.String(strings.ReplaceAll(c, "_", " "))
	}

	header := fmt.Sprintf("%s at %s, radius %.2f km, %dx%d cells (%s)",
		strings.Join(names, ", "),
		formatCoord(report.Origin),
		report.RadiusKM,
		report.Resolution, report.Resolution,
		report.Policy,
	)
	for _, f := range report.Failed {
		header += fmt.Sprintf("\nskipped %s: %s", f.Category, f.Error)
	}
	return header
}

func formatCoord(c geo.Coord) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
