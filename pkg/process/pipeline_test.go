package process

import (
	"fmt"
	"testing"

	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// traceExporter records every sink call as a formatted line, for comparing
// full export traces between pipeline runs.
type traceExporter struct {
	lines []string
}

func (e *traceExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature plan.FeatureType, updateExtrusionOffset bool) error {
	e.lines = append(e.lines, fmt.Sprintf("E %v %v %d %d %s", p, speed, lineWidth, lineThickness, feature))
	return nil
}

func (e *traceExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature plan.FeatureType) error {
	e.lines = append(e.lines, fmt.Sprintf("T %v %v %s", p, speed, feature))
	return nil
}

func (e *traceExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	e.lines = append(e.lines, fmt.Sprintf("LS %d %v", layerIndex, start))
	return nil
}

func (e *traceExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	e.lines = append(e.lines, fmt.Sprintf("LE %d %d %d", layerIndex, z, thickness))
	return nil
}

func buildTestLayer() *plan.LayerPlan {
	layer := plan.NewLayerPlan(0, 200, 200, geom.Point3{})
	extruderPlan := plan.NewExtruderPlan(0, 150)
	layer.AppendExtruderPlan(extruderPlan)

	// Scrambled insertion order: infill, inner wall, outer wall.
	extruderPlan.AppendFeatureExtrusion(testFeature(plan.FeatureInfill, 40000), true)
	extruderPlan.AppendFeatureExtrusion(testWall(1, 20000), true)
	extruderPlan.AppendFeatureExtrusion(testWall(0, 0), true)
	return layer
}

func testOptions() Options {
	return Options{
		ConstraintGenerators: []ConstraintsGenerator{
			InsetOrderingGenerator{OuterFirst: true},
		},
		TravelGenerator:   DirectTravelMoveGenerator{},
		BackPressureRatio: 0.5,
	}
}

func TestApplyOrdersStitchesAndCompensates(t *testing.T) {
	layer := buildTestLayer()
	Apply(layer, testOptions())

	extruderPlan := layer.Operations()[0].(*plan.ExtruderPlan)
	features := featureChildren(extruderPlan)
	if len(features) != 3 {
		t.Fatalf("features = %d, want 3", len(features))
	}

	// Outer wall (inset 0) must now precede the inner wall (inset 1).
	outerAt, innerAt := -1, -1
	for i, f := range features {
		idx, ok := f.InsetIndex()
		if !ok {
			continue
		}
		switch idx {
		case 0:
			outerAt = i
		case 1:
			innerAt = i
		}
	}
	if outerAt < 0 || innerAt < 0 || outerAt > innerAt {
		t.Errorf("wall order outer=%d inner=%d, want outer first", outerAt, innerAt)
	}

	// The features are disjoint in X, so every feature gets an approach
	// route: from the layer start and between each adjacent pair.
	if got := countRoutes(extruderPlan); got != 3 {
		t.Errorf("routes = %d, want 3", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	layer := buildTestLayer()
	opts := testOptions()

	Apply(layer, opts)
	first := &traceExporter{}
	if err := layer.Write(first, nil); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	Apply(layer, opts)
	second := &traceExporter{}
	if err := layer.Write(second, nil); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	if len(first.lines) != len(second.lines) {
		t.Fatalf("second run emitted %d calls, first emitted %d",
			len(second.lines), len(first.lines))
	}
	for i := range first.lines {
		if first.lines[i] != second.lines[i] {
			t.Errorf("call %d differs: %q vs %q", i, first.lines[i], second.lines[i])
		}
	}
}

func TestApplyWithoutGeneratorsKeepsInsertionOrder(t *testing.T) {
	layer := buildTestLayer()
	extruderPlan := layer.Operations()[0].(*plan.ExtruderPlan)
	before := featureChildren(extruderPlan)

	Apply(layer, Options{})

	after := featureChildren(extruderPlan)
	if len(before) != len(after) {
		t.Fatalf("feature count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("feature %d moved without any constraint generator", i)
		}
	}
}
