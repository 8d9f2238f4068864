// Feature extrusions and the travel routes stitched between them
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"printplan-go/pkg/geom"
)

// FeatureConfig carries the per-feature nominal printing parameters decided
// by the external planner. Configs are read-only once the feature is built
// and may be shared across trees.
type FeatureConfig struct {
	// Type tags the feature for exporters and ordering passes
	Type FeatureType

	// LineWidth is the nominal extrusion width in microns
	LineWidth geom.Coord

	// Speed is the nominal print speed in mm/s
	Speed geom.Velocity

	// LayerThickness is the layer height in microns
	LayerThickness geom.Coord

	// FlowRatio scales the derived line width
	FlowRatio geom.Ratio

	// ExtrusionMM3PerMM is the extruded volume per traveled millimeter
	ExtrusionMM3PerMM float64

	// ZOffset is an additional vertical offset in microns
	ZOffset geom.Coord
}

// FeatureExtrusion is one named printable feature: an ordered list of
// continuous move sequences sharing one configuration. It is created once
// per layer and extruder, mutated only by the pass pipeline and immutable
// afterwards.
type FeatureExtrusion struct {
	Sequence
	config FeatureConfig

	flow               geom.Ratio
	widthFactor        geom.Ratio
	speedFactor        geom.Ratio
	backPressureFactor geom.Ratio

	// insetIndex is the wall ring index, -1 for non-wall features
	insetIndex int
}

// NewFeatureExtrusion creates a feature extrusion with neutral factors.
func NewFeatureExtrusion(config FeatureConfig) *FeatureExtrusion {
	f := &FeatureExtrusion{
		config:             config,
		flow:               1.0,
		widthFactor:        1.0,
		speedFactor:        1.0,
		backPressureFactor: 1.0,
		insetIndex:         -1,
	}
	f.initSequence(f)
	return f
}

// NewWallFeatureExtrusion creates a wall feature carrying its inset index
// (0 = outermost wall), the ordering input for inset constraint generators.
func NewWallFeatureExtrusion(config FeatureConfig, insetIndex int) *FeatureExtrusion {
	f := NewFeatureExtrusion(config)
	f.insetIndex = insetIndex
	return f
}

// AppendMoveSequence adds a move sequence at the end of the feature. With
// checkNonEmpty set, empty sequences are dropped.
func (f *FeatureExtrusion) AppendMoveSequence(seq *ContinuousMoveSequence, checkNonEmpty bool) {
	if checkNonEmpty && seq.Empty() {
		return
	}
	f.AppendOperation(seq)
}

// Type returns the feature tag.
func (f *FeatureExtrusion) Type() FeatureType { return f.config.Type }

// Speed returns the nominal print speed.
func (f *FeatureExtrusion) Speed() geom.Velocity { return f.config.Speed }

// EffectiveSpeed returns the export velocity: nominal speed scaled by the
// speed factor and the back-pressure factor.
func (f *FeatureExtrusion) EffectiveSpeed() geom.Velocity {
	return f.config.Speed * geom.Velocity(f.speedFactor) * geom.Velocity(f.backPressureFactor)
}

// NominalLineWidth returns the configured line width in microns.
func (f *FeatureExtrusion) NominalLineWidth() geom.Coord { return f.config.LineWidth }

// LineWidth returns the derived line width in microns:
// flow x width-factor x nominal width x flow ratio, rounded to the nearest
// coordinate unit.
func (f *FeatureExtrusion) LineWidth() geom.Coord {
	return geom.LLRint(float64(f.flow) * float64(f.widthFactor) *
		float64(f.config.LineWidth) * float64(f.config.FlowRatio))
}

// LayerThickness returns the configured layer height in microns.
func (f *FeatureExtrusion) LayerThickness() geom.Coord { return f.config.LayerThickness }

// ExtrusionMM3PerMM returns the configured volumetric extrusion rate.
func (f *FeatureExtrusion) ExtrusionMM3PerMM() float64 { return f.config.ExtrusionMM3PerMM }

// ZOffset returns the configured vertical offset in microns.
func (f *FeatureExtrusion) ZOffset() geom.Coord { return f.config.ZOffset }

// Flow returns the material flow override.
func (f *FeatureExtrusion) Flow() geom.Ratio { return f.flow }

// SetFlow sets the material flow override.
func (f *FeatureExtrusion) SetFlow(flow geom.Ratio) { f.flow = flow }

// WidthFactor returns the local width factor.
func (f *FeatureExtrusion) WidthFactor() geom.Ratio { return f.widthFactor }

// SetWidthFactor sets the local width factor.
func (f *FeatureExtrusion) SetWidthFactor(factor geom.Ratio) { f.widthFactor = factor }

// SpeedFactor returns the speed factor applied by ordering passes.
func (f *FeatureExtrusion) SpeedFactor() geom.Ratio { return f.speedFactor }

// SetSpeedFactor sets the speed factor.
func (f *FeatureExtrusion) SetSpeedFactor(factor geom.Ratio) { f.speedFactor = factor }

// SpeedBackPressureFactor returns the back-pressure compensation factor.
func (f *FeatureExtrusion) SpeedBackPressureFactor() geom.Ratio { return f.backPressureFactor }

// SetSpeedBackPressureFactor sets the back-pressure compensation factor.
func (f *FeatureExtrusion) SetSpeedBackPressureFactor(factor geom.Ratio) {
	f.backPressureFactor = factor
}

// InsetIndex returns the wall ring index; ok is false for non-wall
// features.
func (f *FeatureExtrusion) InsetIndex() (int, bool) {
	if f.insetIndex < 0 {
		return 0, false
	}
	return f.insetIndex, true
}

// TravelRoute is a continuous run of travel moves stitched between two
// features by the travel synthesis pass.
type TravelRoute struct {
	Sequence
	feature FeatureType
	speed   geom.Velocity
}

// NewTravelRoute creates an empty travel route.
func NewTravelRoute(feature FeatureType, speed geom.Velocity) *TravelRoute {
	r := &TravelRoute{feature: feature, speed: speed}
	r.initSequence(r)
	return r
}

// Feature returns the travel-class feature tag.
func (r *TravelRoute) Feature() FeatureType { return r.feature }

// Speed returns the travel speed in mm/s.
func (r *TravelRoute) Speed() geom.Velocity { return r.speed }

// AppendTravelMove adds a travel move at the end of the route.
func (r *TravelRoute) AppendTravelMove(move *TravelMove) {
	r.AppendOperation(move)
}
