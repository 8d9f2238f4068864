// Tests for travel synthesis and seam selection
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package process

import (
	"testing"

	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// stitchedLayer builds a layer with one extruder plan holding the features
// and returns both, with the plan's processors left unregistered.
func stitchedLayer(features ...*plan.FeatureExtrusion) (*plan.LayerPlan, *plan.ExtruderPlan) {
	layer := plan.NewLayerPlan(0, 200, 200, geom.Point3{})
	extruderPlan := plan.NewExtruderPlan(0, 150)
	layer.AppendExtruderPlan(extruderPlan)
	for _, f := range features {
		extruderPlan.AppendFeatureExtrusion(f, true)
	}
	return layer, extruderPlan
}

func countRoutes(extruderPlan *plan.ExtruderPlan) int {
	count := 0
	for _, op := range extruderPlan.Operations() {
		if _, ok := op.(*plan.TravelRoute); ok {
			count++
		}
	}
	return count
}

func TestTravelStitchesGaps(t *testing.T) {
	// Feature a ends at x=1mm, feature b starts at x=10mm.
	a := testFeature(plan.FeatureWallOuter, 0)
	b := testFeature(plan.FeatureInfill, 10000)
	layer, extruderPlan := stitchedLayer(a, b)

	proc := NewTravelMoveProcessor(nil, nil)
	proc.Process(extruderPlan, []plan.Operation{layer})

	ops := extruderPlan.Operations()
	// Layer starts at the origin = feature a's start, so only one route.
	if countRoutes(extruderPlan) != 1 {
		t.Fatalf("routes = %d, want 1", countRoutes(extruderPlan))
	}
	route, ok := ops[1].(*plan.TravelRoute)
	if !ok {
		t.Fatalf("child 1 is %T, want the stitched route", ops[1])
	}
	end, _ := route.FindEndPosition()
	if end != (geom.Point3{X: 10000}) {
		t.Errorf("route ends at %v, want feature b's start", end)
	}
	if route.Speed() != extruderPlan.TravelSpeed() {
		t.Errorf("route speed = %v, want the plan travel speed", route.Speed())
	}
}

func TestTravelSkipsCoincidentPositions(t *testing.T) {
	// Feature a ends exactly where feature b starts.
	a := testFeature(plan.FeatureWallOuter, 0) // ends at x=1000
	b := testFeature(plan.FeatureInfill, 1000) // starts at x=1000
	layer, extruderPlan := stitchedLayer(a, b)

	proc := NewTravelMoveProcessor(nil, nil)
	proc.Process(extruderPlan, []plan.Operation{layer})

	if countRoutes(extruderPlan) != 0 {
		t.Errorf("routes = %d, want 0 for coincident positions", countRoutes(extruderPlan))
	}
}

func TestTravelIsIdempotent(t *testing.T) {
	a := testFeature(plan.FeatureWallOuter, 0)
	b := testFeature(plan.FeatureInfill, 10000)
	layer, extruderPlan := stitchedLayer(a, b)

	proc := NewTravelMoveProcessor(nil, nil)
	proc.Process(extruderPlan, []plan.Operation{layer})
	first := len(extruderPlan.Operations())
	proc.Process(extruderPlan, []plan.Operation{layer})

	if got := len(extruderPlan.Operations()); got != first {
		t.Errorf("second run changed the child count: %d -> %d", first, got)
	}
	if countRoutes(extruderPlan) != 1 {
		t.Errorf("routes after re-run = %d, want still 1", countRoutes(extruderPlan))
	}
}

func TestTravelFromLayerStart(t *testing.T) {
	a := testFeature(plan.FeatureWallOuter, 5000)
	layer := plan.NewLayerPlan(0, 200, 200, geom.Point3{X: 90000})
	extruderPlan := plan.NewExtruderPlan(0, 150)
	layer.AppendExtruderPlan(extruderPlan)
	extruderPlan.AppendFeatureExtrusion(a, true)

	proc := NewTravelMoveProcessor(nil, nil)
	proc.Process(extruderPlan, []plan.Operation{layer})

	ops := extruderPlan.Operations()
	if len(ops) != 2 {
		t.Fatalf("children = %d, want route + feature", len(ops))
	}
	if _, ok := ops[0].(*plan.TravelRoute); !ok {
		t.Errorf("child 0 is %T, want the route from the layer start", ops[0])
	}
}

func TestTravelSeamOptimization(t *testing.T) {
	// A closed square loop whose current seam is the far corner.
	loop := plan.NewContinuousMoveSequence(true, geom.Point3{X: 20000, Y: 20000})
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: 10000, Y: 20000}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: 10000, Y: 10000}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: 20000, Y: 10000}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: 20000, Y: 20000}, 1.0))

	wall := plan.NewWallFeatureExtrusion(plan.FeatureConfig{
		Type:              plan.FeatureWallOuter,
		LineWidth:         400,
		Speed:             30,
		LayerThickness:    200,
		FlowRatio:         1.0,
		ExtrusionMM3PerMM: 0.1,
	}, 0)
	wall.AppendMoveSequence(loop, true)

	layer, extruderPlan := stitchedLayer(wall)

	criteria := func(from geom.Point3, haveFrom bool) []ScoringCriterion {
		if !haveFrom {
			return nil
		}
		return []ScoringCriterion{DistanceScoringCriterion{From: from, NormalizeMM: 100}}
	}
	proc := NewTravelMoveProcessor(nil, criteria)
	proc.Process(extruderPlan, []plan.Operation{layer})

	// The layer starts at the origin; the nearest vertex is (10, 10) mm.
	if loop.StartPosition() != (geom.Point3{X: 10000, Y: 10000}) {
		t.Errorf("seam = %v, want the vertex nearest the origin", loop.StartPosition())
	}
	end, _ := loop.FindEndPosition()
	if end != loop.StartPosition() {
		t.Error("loop no longer closed after seam selection")
	}
}

func TestTravelOpenSequenceSeamUntouched(t *testing.T) {
	a := testFeature(plan.FeatureWallOuter, 5000)
	layer, extruderPlan := stitchedLayer(a)

	criteria := func(from geom.Point3, haveFrom bool) []ScoringCriterion {
		return []ScoringCriterion{DistanceScoringCriterion{From: from, NormalizeMM: 100}}
	}
	proc := NewTravelMoveProcessor(nil, criteria)
	proc.Process(extruderPlan, []plan.Operation{layer})

	start, _ := a.FindStartPosition()
	if start != (geom.Point3{X: 5000}) {
		t.Errorf("open sequence start moved to %v", start)
	}
}

func TestDirectTravelMoveGenerator(t *testing.T) {
	route := DirectTravelMoveGenerator{}.GenerateTravelRoute(
		geom.Point3{}, geom.Point3{X: 5000, Y: 5000}, 120)

	if route.Speed() != 120 {
		t.Errorf("route speed = %v, want 120", route.Speed())
	}
	if !route.Feature().IsTravel() {
		t.Errorf("route feature = %v, want a travel class", route.Feature())
	}
	ops := route.Operations()
	if len(ops) != 1 {
		t.Fatalf("route has %d moves, want 1", len(ops))
	}
	end, _ := ops[0].FindEndPosition()
	if end != (geom.Point3{X: 5000, Y: 5000}) {
		t.Errorf("route target = %v", end)
	}
}
