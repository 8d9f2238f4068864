// Travel move synthesis pass
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package process

import (
	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// TravelMoveGenerator produces the travel route stitching two positions.
// Implementations may route around printed parts; the default goes
// straight.
type TravelMoveGenerator interface {
	GenerateTravelRoute(start, end geom.Point3, speed geom.Velocity) *plan.TravelRoute
}

// DirectTravelMoveGenerator emits a single straight travel leaf to the
// destination.
type DirectTravelMoveGenerator struct{}

// GenerateTravelRoute returns a route with one travel move at end.
func (DirectTravelMoveGenerator) GenerateTravelRoute(start, end geom.Point3, speed geom.Velocity) *plan.TravelRoute {
	route := plan.NewTravelRoute(plan.FeatureTravel, speed)
	route.AppendTravelMove(plan.NewTravelMove(end))
	return route
}

// TravelMoveProcessor splices travel routes between adjacent feature
// extrusions whose end/start positions differ, choosing each following
// feature's seam by scoring the available start candidates first. Already
// stitched pairs are left untouched, making the pass idempotent.
type TravelMoveProcessor struct {
	generator TravelMoveGenerator
	criteria  CriteriaFactory
}

// NewTravelMoveProcessor creates the travel synthesis pass. A nil generator
// defaults to straight routes; a nil criteria factory disables seam
// optimization.
func NewTravelMoveProcessor(generator TravelMoveGenerator, criteria CriteriaFactory) *TravelMoveProcessor {
	if generator == nil {
		generator = DirectTravelMoveGenerator{}
	}
	return &TravelMoveProcessor{generator: generator, criteria: criteria}
}

// Process stitches one extruder plan. The position before the first feature
// is the layer start position taken from the ancestor chain.
func (p *TravelMoveProcessor) Process(op plan.Operation, ancestors []plan.Operation) {
	extruderPlan, ok := op.(*plan.ExtruderPlan)
	if !ok {
		return
	}

	current, haveCurrent := layerStart(ancestors)
	speed := extruderPlan.TravelSpeed()

	children := extruderPlan.Operations()
	stitched := make([]plan.Operation, 0, len(children)+4)
	for _, child := range children {
		if feature, ok := child.(*plan.FeatureExtrusion); ok {
			p.optimizeStartPoint(current, haveCurrent, feature)
			if start, ok := feature.FindStartPosition(); ok {
				if haveCurrent && start != current {
					stitched = append(stitched, p.generator.GenerateTravelRoute(current, start, speed))
				}
			}
		}
		stitched = append(stitched, child)
		if end, ok := child.FindEndPosition(); ok {
			current, haveCurrent = end, true
		}
	}
	extruderPlan.SetOperations(stitched)
}

// optimizeStartPoint picks the seam of the feature's first closed move
// sequence by evaluating every active scoring criterion over the candidate
// list.
func (p *TravelMoveProcessor) optimizeStartPoint(from geom.Point3, haveFrom bool, feature *plan.FeatureExtrusion) {
	if p.criteria == nil {
		return
	}
	seq, ok := plan.FindOperationByType[*plan.ContinuousMoveSequence](
		&feature.Sequence, plan.SearchForward, plan.DepthDirectChildren)
	if !ok || !seq.Closed() {
		return
	}
	candidates, moveIndexes := seq.StartCandidates()
	if len(candidates) < 2 {
		return
	}
	best, ok := FindBestCandidate(candidates, p.criteria(from, haveFrom))
	if !ok {
		return
	}
	seq.ReorderToStartAt(moveIndexes[best])
}

func layerStart(ancestors []plan.Operation) (geom.Point3, bool) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if layer, ok := ancestors[i].(*plan.LayerPlan); ok {
			return layer.StartPosition(), true
		}
	}
	return geom.Point3{}, false
}
