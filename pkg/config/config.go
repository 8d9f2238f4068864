// Package config loads the planner settings consumed by the pass pipeline
// and the export sinks. Settings come from a TOML file layered over
// defaults; geometry configuration (what to print) is out of scope and
// arrives from the orchestration layer instead.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package config

import (
	"github.com/BurntSushi/toml"

	"printplan-go/pkg/errors"
	"printplan-go/pkg/geom"
)

// Settings is the root planner configuration.
type Settings struct {
	Travel       TravelSettings       `toml:"travel"`
	Compensation CompensationSettings `toml:"compensation"`
	Seam         SeamSettings         `toml:"seam"`
	Export       ExportSettings       `toml:"export"`
}

// TravelSettings configures synthesized travel moves.
type TravelSettings struct {
	// Speed is the travel speed in mm/s
	Speed float64 `toml:"speed"`
}

// CompensationSettings configures back-pressure flow compensation.
type CompensationSettings struct {
	// BackPressureRatio scales compensation: 0 disables, 1 is full
	BackPressureRatio float64 `toml:"back_pressure_ratio"`
}

// SeamSettings configures scoring-based start point selection.
type SeamSettings struct {
	// DistanceNormalizationMM is the travel distance that scores 1.0
	DistanceNormalizationMM float64 `toml:"distance_normalization_mm"`

	// ExclusionAreas are polygons (micron vertex pairs) the seam must
	// avoid
	ExclusionAreas [][][2]int64 `toml:"exclusion_areas"`
}

// ExportSettings configures the direct G-code sink.
type ExportSettings struct {
	// FilamentDiameter in millimeters
	FilamentDiameter float64 `toml:"filament_diameter"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Travel:       TravelSettings{Speed: 150.0},
		Compensation: CompensationSettings{BackPressureRatio: 0.0},
		Seam:         SeamSettings{DistanceNormalizationMM: 50.0},
		Export:       ExportSettings{FilamentDiameter: 1.75},
	}
}

// Load reads a TOML settings file layered over the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, errors.ConfigParseError(path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.Travel.Speed <= 0 {
		return errors.ConfigValidationError("travel.speed", "must be positive")
	}
	if s.Compensation.BackPressureRatio < 0 || s.Compensation.BackPressureRatio > 1 {
		return errors.ConfigValidationError("compensation.back_pressure_ratio", "must be in [0, 1]")
	}
	if s.Seam.DistanceNormalizationMM < 0 {
		return errors.ConfigValidationError("seam.distance_normalization_mm", "must not be negative")
	}
	if s.Export.FilamentDiameter <= 0 {
		return errors.ConfigValidationError("export.filament_diameter", "must be positive")
	}
	for i, area := range s.Seam.ExclusionAreas {
		if len(area) < 3 {
			return errors.ConfigValidationError("seam.exclusion_areas",
				"polygons need at least 3 vertices").SetContext("area", i)
		}
	}
	return nil
}

// ExclusionPolygons converts the configured exclusion areas to geometry.
func (s SeamSettings) ExclusionPolygons() []geom.Polygon {
	polygons := make([]geom.Polygon, 0, len(s.ExclusionAreas))
	for _, area := range s.ExclusionAreas {
		poly := make(geom.Polygon, 0, len(area))
		for _, v := range area {
			poly = append(poly, geom.Point2{X: geom.Coord(v[0]), Y: geom.Coord(v[1])})
		}
		polygons = append(polygons, poly)
	}
	return polygons
}
