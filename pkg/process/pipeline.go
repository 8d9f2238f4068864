// Pass pipeline assembly
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package process

import (
	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// Options selects the passes applied to a layer plan.
type Options struct {
	// ConstraintGenerators feed the ordering pass; an empty list leaves
	// insertion order untouched.
	ConstraintGenerators []ConstraintsGenerator

	// TravelGenerator routes travel moves; nil defaults to straight routes.
	TravelGenerator TravelMoveGenerator

	// Criteria builds the seam scoring criteria; nil disables seam
	// optimization.
	Criteria CriteriaFactory

	// BackPressureRatio scales flow compensation; 0 disables it.
	BackPressureRatio geom.Ratio
}

// Apply registers the pass pipeline on every extruder plan of the layer, in
// fixed order, and runs it once. Re-applying to an already-resolved layer
// yields the same structure: each pass is idempotent and registration is
// replaced, not accumulated.
func Apply(layer *plan.LayerPlan, opts Options) {
	ordering := NewFeatureOrderingProcessor(opts.ConstraintGenerators...)
	travel := NewTravelMoveProcessor(opts.TravelGenerator, opts.Criteria)
	backPressure := BackPressureProcessor{Ratio: opts.BackPressureRatio}

	for _, op := range layer.Operations() {
		extruderPlan, ok := op.(*plan.ExtruderPlan)
		if !ok {
			continue
		}
		extruderPlan.SetProcessors(ordering, travel, backPressure)
	}

	layer.ApplyProcessors(nil)
}
