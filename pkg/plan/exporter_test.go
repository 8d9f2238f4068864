package plan

import (
	"printplan-go/pkg/geom"
)

// record is one captured exporter call.
type record struct {
	kind          string
	pos           geom.Point3
	speed         geom.Velocity
	feature       FeatureType
	lineWidth     geom.Coord
	lineThickness geom.Coord
	layer         int
	value         float64
	wait          bool
}

// recordingExporter captures every sink call for assertions.
type recordingExporter struct {
	records []record
}

func (r *recordingExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature FeatureType, updateExtrusionOffset bool) error {
	r.records = append(r.records, record{
		kind: "extrusion", pos: p, speed: speed, feature: feature,
		lineWidth: lineWidth, lineThickness: lineThickness, value: extrusionMM3PerMM,
	})
	return nil
}

func (r *recordingExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature FeatureType) error {
	r.records = append(r.records, record{kind: "travel", pos: p, speed: speed, feature: feature})
	return nil
}

func (r *recordingExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	r.records = append(r.records, record{kind: "layer_start", layer: layerIndex, pos: start})
	return nil
}

func (r *recordingExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	r.records = append(r.records, record{kind: "layer_end", layer: layerIndex})
	return nil
}

func (r *recordingExporter) WriteTemperatureCommand(extruder int, temperature float64, wait bool) error {
	r.records = append(r.records, record{kind: "temperature", layer: extruder, value: temperature, wait: wait})
	return nil
}

func (r *recordingExporter) WriteFanSpeed(percent float64) error {
	r.records = append(r.records, record{kind: "fan", value: percent})
	return nil
}

func (r *recordingExporter) kinds() []string {
	kinds := make([]string, len(r.records))
	for i, rec := range r.records {
		kinds[i] = rec.kind
	}
	return kinds
}

// basicExporter implements only the required Exporter methods, without the
// optional temperature and fan capabilities.
type basicExporter struct {
	inner recordingExporter
}

func (b *basicExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature FeatureType, updateExtrusionOffset bool) error {
	return b.inner.WriteExtrusion(p, speed, extrusionMM3PerMM, lineWidth, lineThickness, feature, updateExtrusionOffset)
}

func (b *basicExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature FeatureType) error {
	return b.inner.WriteTravelMove(p, speed, feature)
}

func (b *basicExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	return b.inner.WriteLayerStart(layerIndex, start)
}

func (b *basicExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	return b.inner.WriteLayerEnd(layerIndex, z, thickness)
}

// testFeatureConfig returns a feature config with round numbers for
// assertions.
func testFeatureConfig(t FeatureType) FeatureConfig {
	return FeatureConfig{
		Type:              t,
		LineWidth:         400,
		Speed:             50,
		LayerThickness:    200,
		FlowRatio:         1.0,
		ExtrusionMM3PerMM: 0.1,
	}
}

// lineSequence builds an open move sequence from start through the targets.
func lineSequence(start geom.Point3, targets ...geom.Point3) *ContinuousMoveSequence {
	seq := NewContinuousMoveSequence(false, start)
	for _, p := range targets {
		seq.AppendExtrusionMove(NewExtrusionMove(p, 1.0))
	}
	return seq
}
