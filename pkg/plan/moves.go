// Leaf move operations
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"printplan-go/pkg/geom"
)

// ExtrusionMove is a leaf operation extruding material while moving to a
// target position. A move without an explicit target inherits the absolute
// end position of the previous leaf in traversal order.
type ExtrusionMove struct {
	parent      Operation
	position    geom.Point3
	hasPosition bool
	widthRatio  geom.Ratio
}

// NewExtrusionMove creates an extrusion move to an explicit target. The
// width ratio scales the owning feature's line width for this segment.
func NewExtrusionMove(position geom.Point3, widthRatio geom.Ratio) *ExtrusionMove {
	return &ExtrusionMove{position: position, hasPosition: true, widthRatio: widthRatio}
}

// NewStationaryExtrusionMove creates an extrusion move without an explicit
// target; it resolves to the previous leaf's end position.
func NewStationaryExtrusionMove(widthRatio geom.Ratio) *ExtrusionMove {
	return &ExtrusionMove{widthRatio: widthRatio}
}

// Parent returns the owning sequence.
func (m *ExtrusionMove) Parent() Operation { return m.parent }

func (m *ExtrusionMove) setParent(parent Operation) { m.parent = parent }

// Empty always reports false: a leaf move is a motion intent by itself.
func (m *ExtrusionMove) Empty() bool { return false }

// ApplyProcessors is a no-op on leaves.
func (m *ExtrusionMove) ApplyProcessors(ancestors []Operation) {}

// WidthRatio returns the per-segment line width scale.
func (m *ExtrusionMove) WidthRatio() geom.Ratio { return m.widthRatio }

// AbsolutePosition resolves the move target: the stored position when
// explicit, otherwise the end position of the previous leaf.
func (m *ExtrusionMove) AbsolutePosition() (geom.Point3, bool) {
	if m.hasPosition {
		return m.position, true
	}
	return previousEndPosition(m)
}

// FindStartPosition returns the resolved move target.
func (m *ExtrusionMove) FindStartPosition() (geom.Point3, bool) { return m.AbsolutePosition() }

// FindEndPosition returns the resolved move target.
func (m *ExtrusionMove) FindEndPosition() (geom.Point3, bool) { return m.AbsolutePosition() }

// Write resolves the effective velocity, line width and thickness from the
// owning feature extrusion and emits one extrusion call. A move without an
// owning feature is skipped with a diagnostic.
func (m *ExtrusionMove) Write(exporter Exporter, ancestors []Operation) error {
	feature := nearestFeature(ancestors)
	if feature == nil {
		logger.Warn("unable to export extrusion move because it is not part of a feature extrusion")
		return nil
	}

	position, ok := m.AbsolutePosition()
	if !ok {
		logger.Warn("unable to resolve extrusion move position, move skipped")
		return nil
	}

	velocity := feature.EffectiveSpeed()
	lineWidth := geom.LLRint(float64(feature.LineWidth()) * float64(m.widthRatio))
	lineThickness := feature.LayerThickness() + feature.ZOffset() + m.localZ()

	return exporter.WriteExtrusion(position, velocity, feature.ExtrusionMM3PerMM(),
		lineWidth, lineThickness, feature.Type(), false)
}

func (m *ExtrusionMove) localZ() geom.Coord {
	if m.hasPosition {
		return m.position.Z
	}
	return 0
}

// TravelMove is a leaf operation moving to a target position without
// extruding.
type TravelMove struct {
	parent   Operation
	position geom.Point3
}

// NewTravelMove creates a travel move to an explicit target.
func NewTravelMove(position geom.Point3) *TravelMove {
	return &TravelMove{position: position}
}

// Parent returns the owning sequence.
func (m *TravelMove) Parent() Operation { return m.parent }

func (m *TravelMove) setParent(parent Operation) { m.parent = parent }

// Empty always reports false.
func (m *TravelMove) Empty() bool { return false }

// ApplyProcessors is a no-op on leaves.
func (m *TravelMove) ApplyProcessors(ancestors []Operation) {}

// FindStartPosition returns the move target.
func (m *TravelMove) FindStartPosition() (geom.Point3, bool) { return m.position, true }

// FindEndPosition returns the move target.
func (m *TravelMove) FindEndPosition() (geom.Point3, bool) { return m.position, true }

// Write emits one travel call. Speed and feature tag come from the owning
// travel route, falling back to the owning extruder plan's travel speed.
func (m *TravelMove) Write(exporter Exporter, ancestors []Operation) error {
	speed, feature := travelContext(ancestors)
	return exporter.WriteTravelMove(m.position, speed, feature)
}

// nearestFeature returns the innermost FeatureExtrusion in the ancestor
// chain, or nil.
func nearestFeature(ancestors []Operation) *FeatureExtrusion {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if feature, ok := ancestors[i].(*FeatureExtrusion); ok {
			return feature
		}
	}
	return nil
}

// travelContext resolves the travel speed and feature tag for a travel
// leaf from its ancestor chain.
func travelContext(ancestors []Operation) (geom.Velocity, FeatureType) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch owner := ancestors[i].(type) {
		case *TravelRoute:
			return owner.Speed(), owner.Feature()
		case *ExtruderPlan:
			return owner.TravelSpeed(), FeatureTravel
		}
	}
	return 0, FeatureTravel
}
