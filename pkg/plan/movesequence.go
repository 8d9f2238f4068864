// Continuous extrusion runs with closed-loop seam support
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"printplan-go/pkg/geom"
)

// ContinuousMoveSequence is an uninterrupted run of extrusion moves: the
// nozzle stays engaged from the explicit start position through every move
// target. A closed sequence forms a loop whose last move returns to the
// start position; any vertex of the loop is a valid seam.
type ContinuousMoveSequence struct {
	Sequence
	startPosition geom.Point3
	closed        bool
}

// NewContinuousMoveSequence creates a move sequence beginning at start.
func NewContinuousMoveSequence(closed bool, start geom.Point3) *ContinuousMoveSequence {
	s := &ContinuousMoveSequence{startPosition: start, closed: closed}
	s.initSequence(s)
	return s
}

// Closed reports whether the sequence forms a closed loop.
func (s *ContinuousMoveSequence) Closed() bool { return s.closed }

// StartPosition returns the position the nozzle must reach before the
// sequence executes.
func (s *ContinuousMoveSequence) StartPosition() geom.Point3 { return s.startPosition }

func (s *ContinuousMoveSequence) explicitStartPosition() (geom.Point3, bool) {
	return s.startPosition, true
}

// FindStartPosition returns the explicit start position; a sequence is
// entered at its seam, not at its first move target.
func (s *ContinuousMoveSequence) FindStartPosition() (geom.Point3, bool) {
	if s.Empty() {
		return geom.Point3{}, false
	}
	return s.startPosition, true
}

// AppendExtrusionMove adds a move at the end of the sequence.
func (s *ContinuousMoveSequence) AppendExtrusionMove(move *ExtrusionMove) {
	s.AppendOperation(move)
}

// StartCandidates returns the selectable seam positions: every resolved
// move target for a closed loop, only the current start otherwise. The
// second return value maps each candidate to the move index to reorder to
// (-1 for the current start).
func (s *ContinuousMoveSequence) StartCandidates() ([]geom.Point3, []int) {
	if !s.closed || len(s.operations) == 0 {
		return []geom.Point3{s.startPosition}, []int{-1}
	}
	positions := make([]geom.Point3, 0, len(s.operations))
	indexes := make([]int, 0, len(s.operations))
	for i, op := range s.operations {
		if p, ok := op.FindEndPosition(); ok {
			positions = append(positions, p)
			indexes = append(indexes, i)
		}
	}
	return positions, indexes
}

// ReorderToStartAt rotates a closed loop so the move at the given index
// becomes the seam: its target becomes the new start position and the
// remaining moves follow in loop order, ending back at the seam. Index -1
// keeps the current start. Open sequences are never reordered.
func (s *ContinuousMoveSequence) ReorderToStartAt(index int) {
	if !s.closed || index < 0 || index >= len(s.operations) {
		return
	}
	seam, ok := s.operations[index].FindEndPosition()
	if !ok {
		return
	}

	rotated := make([]Operation, 0, len(s.operations))
	rotated = append(rotated, s.operations[index+1:]...)
	rotated = append(rotated, s.operations[:index+1]...)
	s.operations = rotated
	s.startPosition = seam
}
