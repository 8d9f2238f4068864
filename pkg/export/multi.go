// Fan-out sink with failure isolation
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package export

import (
	"printplan-go/pkg/errors"
	"printplan-go/pkg/geom"
	"printplan-go/pkg/log"
	"printplan-go/pkg/plan"
)

var logger = log.GetLogger("export")

// MultiExporter fans every sink call out to an ordered list of sub-sinks.
// A failing sub-sink never prevents the remaining ones from receiving the
// call; the first failure is recorded and returned once after all sub-sinks
// have been attempted.
type MultiExporter struct {
	exporters []plan.Exporter
}

// NewMultiExporter creates a fan-out sink over the given sub-sinks.
func NewMultiExporter(exporters ...plan.Exporter) *MultiExporter {
	return &MultiExporter{exporters: exporters}
}

// AppendExporter adds a sub-sink at the end of the fan-out order.
func (m *MultiExporter) AppendExporter(exporter plan.Exporter) {
	m.exporters = append(m.exporters, exporter)
}

func (m *MultiExporter) forEach(call func(e plan.Exporter) error) error {
	var first error
	for i, e := range m.exporters {
		if err := call(e); err != nil {
			if first == nil {
				first = errors.SinkError(i, err)
			} else {
				logger.WithError(err).WithField("sink", i).Warn("additional sink failure")
			}
		}
	}
	return first
}

// WriteExtrusion forwards to all sub-sinks.
func (m *MultiExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature plan.FeatureType, updateExtrusionOffset bool) error {
	return m.forEach(func(e plan.Exporter) error {
		return e.WriteExtrusion(p, speed, extrusionMM3PerMM, lineWidth, lineThickness, feature, updateExtrusionOffset)
	})
}

// WriteTravelMove forwards to all sub-sinks.
func (m *MultiExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature plan.FeatureType) error {
	return m.forEach(func(e plan.Exporter) error {
		return e.WriteTravelMove(p, speed, feature)
	})
}

// WriteLayerStart forwards to all sub-sinks.
func (m *MultiExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	return m.forEach(func(e plan.Exporter) error {
		return e.WriteLayerStart(layerIndex, start)
	})
}

// WriteLayerEnd forwards to all sub-sinks.
func (m *MultiExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	return m.forEach(func(e plan.Exporter) error {
		return e.WriteLayerEnd(layerIndex, z, thickness)
	})
}

// WriteTemperatureCommand forwards to the sub-sinks supporting it.
func (m *MultiExporter) WriteTemperatureCommand(extruder int, temperature float64, wait bool) error {
	return m.forEach(func(e plan.Exporter) error {
		if tw, ok := e.(plan.TemperatureWriter); ok {
			return tw.WriteTemperatureCommand(extruder, temperature, wait)
		}
		return nil
	})
}

// WriteFanSpeed forwards to the sub-sinks supporting it.
func (m *MultiExporter) WriteFanSpeed(percent float64) error {
	return m.forEach(func(e plan.Exporter) error {
		if fw, ok := e.(plan.FanSpeedWriter); ok {
			return fw.WriteFanSpeed(percent)
		}
		return nil
	})
}
