// Package plan models a layer's planned motions as a mutable operation
// tree: leaf moves grouped into continuous move sequences, owned by feature
// extrusions, owned by extruder plans, owned by a layer plan. The tree is
// built by an external planner, transformed by registered processors and
// finally written depth-first to an exporter.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package plan

import (
	"printplan-go/pkg/geom"
)

// FeatureType tags a printable feature for exporters and ordering passes.
type FeatureType int

const (
	FeatureNone FeatureType = iota
	FeatureWallOuter
	FeatureWallInner
	FeatureSkin
	FeatureInfill
	FeatureSupport
	FeatureSupportRoof
	FeatureBridge
	FeatureTravel
)

// String returns the feature tag in the form exporters annotate output with.
func (t FeatureType) String() string {
	switch t {
	case FeatureWallOuter:
		return "WALL-OUTER"
	case FeatureWallInner:
		return "WALL-INNER"
	case FeatureSkin:
		return "SKIN"
	case FeatureInfill:
		return "FILL"
	case FeatureSupport:
		return "SUPPORT"
	case FeatureSupportRoof:
		return "SUPPORT-INTERFACE"
	case FeatureBridge:
		return "BRIDGE"
	case FeatureTravel:
		return "TRAVEL"
	default:
		return "NONE"
	}
}

// IsTravel reports whether the tag describes a non-extruding move class.
func (t FeatureType) IsTravel() bool { return t == FeatureTravel }

// IsBridge reports whether the tag describes a bridge extrusion.
func (t FeatureType) IsBridge() bool { return t == FeatureBridge }

// Exporter is the write boundary the resolved tree is emitted to. Concrete
// sinks live in pkg/export; anything implementing these four capabilities
// can consume a plan.
type Exporter interface {
	WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
		lineWidth, lineThickness geom.Coord, feature FeatureType, updateExtrusionOffset bool) error
	WriteTravelMove(p geom.Point3, speed geom.Velocity, feature FeatureType) error
	WriteLayerStart(layerIndex int, start geom.Point3) error
	WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error
}

// TemperatureWriter is an optional exporter capability for queued nozzle
// temperature changes. Exporters that do not implement it silently skip
// temperature inserts.
type TemperatureWriter interface {
	WriteTemperatureCommand(extruder int, temperature float64, wait bool) error
}

// FanSpeedWriter is an optional exporter capability for fan speed changes.
type FanSpeedWriter interface {
	WriteFanSpeed(percent float64) error
}

// Operation is one node of the print operation tree. The node set is closed
// over this package: sequences (LayerPlan, ExtruderPlan, FeatureExtrusion,
// ContinuousMoveSequence, TravelRoute) and leaves (ExtrusionMove,
// TravelMove).
type Operation interface {
	// Write emits the subtree to the exporter in child order. The ancestors
	// chain holds every node from the root down to (excluding) this one.
	Write(exporter Exporter, ancestors []Operation) error

	// ApplyProcessors recurses into child sequences first, then runs the
	// processors registered on this node.
	ApplyProcessors(ancestors []Operation)

	// FindStartPosition returns the position of the first leaf move in
	// traversal order. The bool is false for an empty subtree.
	FindStartPosition() (geom.Point3, bool)

	// FindEndPosition returns the position of the last leaf move in
	// traversal order. The bool is false for an empty subtree.
	FindEndPosition() (geom.Point3, bool)

	// Empty reports whether the subtree contains no leaf moves.
	Empty() bool

	// Parent returns the owning sequence, or nil for the root. The returned
	// reference is non-owning and valid only within the single-threaded
	// processing window of one tree.
	Parent() Operation

	setParent(parent Operation)
}

// Processor transforms one operation in place. Processors are registered on
// sequence nodes and run bottom-up during ApplyProcessors.
type Processor interface {
	Process(op Operation, ancestors []Operation)
}

// sequencer is satisfied by every sequence-shaped node via the embedded
// Sequence. Keeping it unexported closes the node set.
type sequencer interface {
	Operation
	sequence() *Sequence
}

// startPositioner is satisfied by nodes that carry an explicit start
// position used as a fallback when resolving leaf positions.
type startPositioner interface {
	explicitStartPosition() (geom.Point3, bool)
}
