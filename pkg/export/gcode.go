// Package export provides the concrete sinks a resolved operation tree can
// be written to: a direct G-code serializer, a live websocket channel, a
// diagnostic console logger and a fan-out aggregator.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package export

import (
	"fmt"
	"io"
	"math"

	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// GCodeOptions configures the direct G-code sink.
type GCodeOptions struct {
	// FilamentDiameter in millimeters, used to convert extruded volume to
	// filament length for E values.
	FilamentDiameter float64
}

// DefaultGCodeOptions returns options for standard 1.75mm filament.
func DefaultGCodeOptions() GCodeOptions {
	return GCodeOptions{FilamentDiameter: 1.75}
}

// GCodeExporter serializes the plan as RepRap-flavor G-code. It also
// aggregates total extruded volume and estimated duration, which the
// orchestration layer reads for reporting and its heating lookahead.
type GCodeExporter struct {
	w            io.Writer
	filamentArea float64

	pos         geom.Point3
	hasPos      bool
	e           float64 // filament millimeters
	lastFeature plan.FeatureType
	hasFeature  bool

	totalVolume float64 // mm3
	totalTime   float64 // seconds
}

// NewGCodeExporter creates a G-code sink writing to w.
func NewGCodeExporter(w io.Writer, opts GCodeOptions) *GCodeExporter {
	radius := opts.FilamentDiameter / 2.0
	return &GCodeExporter{
		w:            w,
		filamentArea: math.Pi * radius * radius,
	}
}

// TotalExtrusionVolume returns the aggregated extruded volume in mm3.
func (g *GCodeExporter) TotalExtrusionVolume() float64 { return g.totalVolume }

// EstimatedDuration returns the aggregated execution time in seconds.
func (g *GCodeExporter) EstimatedDuration() float64 { return g.totalTime }

// WriteLayerStart opens a layer: a marker comment and a rapid to the layer
// start position.
func (g *GCodeExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	if _, err := fmt.Fprintf(g.w, ";LAYER:%d\n", layerIndex); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.w, "G0 X%.3f Y%.3f Z%.3f\n", start.X.MM(), start.Y.MM(), start.Z.MM())
	g.pos, g.hasPos = start, true
	return err
}

// WriteLayerEnd closes a layer with a marker comment.
func (g *GCodeExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	_, err := fmt.Fprintf(g.w, ";LAYER_END:%d Z%.3f H%.3f\n", layerIndex, z.MM(), thickness.MM())
	return err
}

// WriteExtrusion emits one extruding segment, accumulating E from the
// volumetric rate and the segment length.
func (g *GCodeExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature plan.FeatureType, updateExtrusionOffset bool) error {
	if err := g.writeFeatureTag(feature); err != nil {
		return err
	}

	dist := 0.0
	if g.hasPos {
		dist = geom.DistanceMM(g.pos, p)
	}
	volume := extrusionMM3PerMM * dist
	g.totalVolume += volume
	if speed > 0 {
		g.totalTime += dist / float64(speed)
	}
	if g.filamentArea > 0 {
		g.e += volume / g.filamentArea
	}
	g.pos, g.hasPos = p, true

	_, err := fmt.Fprintf(g.w, "G1 F%.0f X%.3f Y%.3f E%.5f\n",
		float64(speed)*60.0, p.X.MM(), p.Y.MM(), g.e)
	return err
}

// WriteTravelMove emits one rapid.
func (g *GCodeExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature plan.FeatureType) error {
	dist := 0.0
	if g.hasPos {
		dist = geom.DistanceMM(g.pos, p)
	}
	if speed > 0 {
		g.totalTime += dist / float64(speed)
	}
	g.pos, g.hasPos = p, true

	_, err := fmt.Fprintf(g.w, "G0 F%.0f X%.3f Y%.3f\n",
		float64(speed)*60.0, p.X.MM(), p.Y.MM())
	return err
}

// WriteTemperatureCommand emits M104/M109.
func (g *GCodeExporter) WriteTemperatureCommand(extruder int, temperature float64, wait bool) error {
	cmd := "M104"
	if wait {
		cmd = "M109"
	}
	_, err := fmt.Fprintf(g.w, "%s T%d S%.1f\n", cmd, extruder, temperature)
	return err
}

// WriteFanSpeed emits M106/M107.
func (g *GCodeExporter) WriteFanSpeed(percent float64) error {
	if percent <= 0 {
		_, err := fmt.Fprintln(g.w, "M107")
		return err
	}
	_, err := fmt.Fprintf(g.w, "M106 S%d\n", int(math.Round(percent*255.0/100.0)))
	return err
}

func (g *GCodeExporter) writeFeatureTag(feature plan.FeatureType) error {
	if g.hasFeature && feature == g.lastFeature {
		return nil
	}
	g.lastFeature, g.hasFeature = feature, true
	_, err := fmt.Fprintf(g.w, ";TYPE:%s\n", feature)
	return err
}
