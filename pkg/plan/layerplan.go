// Layer plan root node
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"printplan-go/pkg/geom"
)

// LayerPlan is the root of one layer's operation tree: an ordered list of
// extruder plans bracketed by layer start/end emissions. The layer start
// position is the final fallback when resolving leaf positions.
type LayerPlan struct {
	Sequence
	index     int
	z         geom.Coord
	thickness geom.Coord
	start     geom.Point3
}

// NewLayerPlan creates an empty layer plan.
func NewLayerPlan(index int, z, thickness geom.Coord, start geom.Point3) *LayerPlan {
	l := &LayerPlan{index: index, z: z, thickness: thickness, start: start}
	l.initSequence(l)
	return l
}

// Index returns the layer number.
func (l *LayerPlan) Index() int { return l.index }

// Z returns the layer's absolute height in microns.
func (l *LayerPlan) Z() geom.Coord { return l.z }

// Thickness returns the layer height in microns.
func (l *LayerPlan) Thickness() geom.Coord { return l.thickness }

// StartPosition returns the position the machine is at when the layer
// begins.
func (l *LayerPlan) StartPosition() geom.Point3 { return l.start }

func (l *LayerPlan) explicitStartPosition() (geom.Point3, bool) {
	return l.start, true
}

// AppendExtruderPlan adds an extruder plan at the end of the layer.
func (l *LayerPlan) AppendExtruderPlan(p *ExtruderPlan) {
	l.AppendOperation(p)
}

// Write brackets the children with layer start/end calls.
func (l *LayerPlan) Write(exporter Exporter, ancestors []Operation) error {
	if err := exporter.WriteLayerStart(l.index, l.start); err != nil {
		return err
	}
	if err := l.Sequence.Write(exporter, ancestors); err != nil {
		return err
	}
	return exporter.WriteLayerEnd(l.index, l.z, l.thickness)
}
