// Back-pressure flow compensation pass
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package process

import (
	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// epsilonSpeedFactor is the lower clamp for compensated speed factors.
// Not the actual float minimum: the machine must never stall.
const epsilonSpeedFactor = 0.001

// BackPressureProcessor recomputes the per-feature speed factor correcting
// for flow-rate deviation caused by non-nominal line widths. Travel and
// bridge features are exempt.
type BackPressureProcessor struct {
	// Ratio scales how strongly width deviation feeds back into speed:
	// 0 disables compensation, 1 compensates fully.
	Ratio geom.Ratio
}

// Process updates every feature of an extruder plan:
// factor = max(epsilon, 1 + (nominal/actual - 1) * ratio).
func (p BackPressureProcessor) Process(op plan.Operation, ancestors []plan.Operation) {
	extruderPlan, ok := op.(*plan.ExtruderPlan)
	if !ok {
		return
	}

	for _, feature := range featureChildren(extruderPlan) {
		if feature.Type().IsTravel() || feature.Type().IsBridge() {
			continue
		}
		nominalWidth := float64(feature.NominalLineWidth())
		widthFactor := float64(feature.WidthFactor())
		if widthFactor <= 0 || nominalWidth <= 0 {
			continue
		}
		actualWidth := widthFactor * nominalWidth
		factor := 1.0 + (nominalWidth/actualWidth-1.0)*float64(p.Ratio)
		if factor < epsilonSpeedFactor {
			factor = epsilonSpeedFactor
		}
		feature.SetSpeedBackPressureFactor(geom.Ratio(factor))
	}
}
