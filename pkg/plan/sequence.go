// Composite sequence node of the print operation tree
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"fmt"

	"printplan-go/pkg/geom"
	"printplan-go/pkg/log"
)

var logger = log.GetLogger("plan")

// SearchOrder controls the sibling scan direction of FindOperation.
type SearchOrder int

const (
	// SearchForward scans children first to last
	SearchForward SearchOrder = iota
	// SearchBackward scans children last to first
	SearchBackward
)

// Search depth bounds for FindOperation.
const (
	// DepthDirectChildren restricts the search to direct children
	DepthDirectChildren = 0
	// DepthFull searches the entire subtree
	DepthFull = -1
)

// Sequence is the composite node every container operation is built on. It
// owns its children exclusively; children hold a non-owning back-reference
// to their parent. Outer types embed Sequence and must call initSequence
// with themselves so ownership updates point at the outer node.
type Sequence struct {
	self       Operation
	parent     Operation
	operations []Operation
	processors []Processor
}

func (s *Sequence) initSequence(self Operation) {
	s.self = self
}

func (s *Sequence) sequence() *Sequence { return s }

// Parent returns the owning sequence, or nil for the root.
func (s *Sequence) Parent() Operation { return s.parent }

func (s *Sequence) setParent(parent Operation) { s.parent = parent }

// Operations returns the ordered child list. The slice is the live backing
// store; callers must not mutate it directly.
func (s *Sequence) Operations() []Operation { return s.operations }

// AppendOperation adds a child at the end, taking ownership.
func (s *Sequence) AppendOperation(op Operation) {
	op.setParent(s.self)
	s.operations = append(s.operations, op)
}

// InsertOperation adds a child at the given index, taking ownership.
// Indexes past the end append.
func (s *Sequence) InsertOperation(index int, op Operation) {
	if index < 0 {
		index = 0
	}
	if index >= len(s.operations) {
		s.AppendOperation(op)
		return
	}
	op.setParent(s.self)
	s.operations = append(s.operations, nil)
	copy(s.operations[index+1:], s.operations[index:])
	s.operations[index] = op
}

// RemoveOperation detaches a child, clearing its back-reference. Removing
// an operation that is not a child is a no-op.
func (s *Sequence) RemoveOperation(op Operation) {
	idx := s.indexOf(op)
	if idx < 0 {
		return
	}
	op.setParent(nil)
	s.operations = append(s.operations[:idx], s.operations[idx+1:]...)
}

// SetOperations replaces the child list, reparenting exactly the changed
// nodes: children no longer listed lose their back-reference, new children
// gain one.
func (s *Sequence) SetOperations(ops []Operation) {
	kept := make(map[Operation]struct{}, len(ops))
	for _, op := range ops {
		kept[op] = struct{}{}
	}
	for _, op := range s.operations {
		if _, ok := kept[op]; !ok {
			op.setParent(nil)
		}
	}
	for _, op := range ops {
		if op.Parent() != s.self {
			op.setParent(s.self)
		}
	}
	s.operations = append(s.operations[:0:0], ops...)
}

func (s *Sequence) indexOf(op Operation) int {
	for i, child := range s.operations {
		if child == op {
			return i
		}
	}
	return -1
}

// Empty reports whether the sequence has no children or only empty
// descendants.
func (s *Sequence) Empty() bool {
	for _, op := range s.operations {
		if !op.Empty() {
			return false
		}
	}
	return true
}

// RegisterProcessor appends a transformation pass to run on this node
// during ApplyProcessors, after all child sequences have been processed.
func (s *Sequence) RegisterProcessor(p Processor) {
	s.processors = append(s.processors, p)
}

// SetProcessors replaces the registered processor list.
func (s *Sequence) SetProcessors(processors ...Processor) {
	s.processors = append(s.processors[:0:0], processors...)
}

// ApplyProcessors recurses into every child first (post-order over
// sequences), then runs the processors registered on this node in
// registration order.
func (s *Sequence) ApplyProcessors(ancestors []Operation) {
	childAncestors := childChain(ancestors, s.self)
	for _, op := range s.operations {
		op.ApplyProcessors(childAncestors)
	}
	for _, p := range s.processors {
		p.Process(s.self, ancestors)
	}
}

// Write emits every child in order. Sequence nodes contribute no direct
// emission themselves.
func (s *Sequence) Write(exporter Exporter, ancestors []Operation) error {
	childAncestors := childChain(ancestors, s.self)
	for _, op := range s.operations {
		if err := op.Write(exporter, childAncestors); err != nil {
			return err
		}
	}
	return nil
}

// FindStartPosition returns the position of the first leaf move in
// traversal order.
func (s *Sequence) FindStartPosition() (geom.Point3, bool) {
	for _, op := range s.operations {
		if p, ok := op.FindStartPosition(); ok {
			return p, true
		}
	}
	return geom.Point3{}, false
}

// FindEndPosition returns the position of the last leaf move in traversal
// order.
func (s *Sequence) FindEndPosition() (geom.Point3, bool) {
	for i := len(s.operations) - 1; i >= 0; i-- {
		if p, ok := s.operations[i].FindEndPosition(); ok {
			return p, true
		}
	}
	return geom.Point3{}, false
}

// FindOperation returns the first descendant matching the predicate, or nil
// if none matches. The search order controls the sibling scan direction at
// each level; maxDepth bounds recursion (DepthDirectChildren = direct
// children only, DepthFull = entire subtree).
func (s *Sequence) FindOperation(pred func(Operation) bool, order SearchOrder, maxDepth int) Operation {
	nextDepth := maxDepth
	if nextDepth > 0 {
		nextDepth--
	}

	check := func(op Operation) Operation {
		if pred(op) {
			return op
		}
		if maxDepth != 0 {
			if seq, ok := op.(sequencer); ok {
				if found := seq.sequence().FindOperation(pred, order, nextDepth); found != nil {
					return found
				}
			}
		}
		return nil
	}

	if order == SearchBackward {
		for i := len(s.operations) - 1; i >= 0; i-- {
			if found := check(s.operations[i]); found != nil {
				return found
			}
		}
		return nil
	}
	for _, op := range s.operations {
		if found := check(op); found != nil {
			return found
		}
	}
	return nil
}

// FindOperationByType returns the first descendant of dynamic type T, in
// the given search order and depth bound.
func FindOperationByType[T Operation](s *Sequence, order SearchOrder, maxDepth int) (T, bool) {
	found := s.FindOperation(func(op Operation) bool {
		_, ok := op.(T)
		return ok
	}, order, maxDepth)
	if found == nil {
		var zero T
		return zero, false
	}
	return found.(T), true
}

// OperationsAs returns all direct children of dynamic type T. A child of
// another type is discarded with a diagnostic, not treated as an error:
// earlier passes may have produced heterogeneous child lists.
func OperationsAs[T Operation](s *Sequence) []T {
	result := make([]T, 0, len(s.operations))
	for _, op := range s.operations {
		if typed, ok := op.(T); ok {
			result = append(result, typed)
		} else {
			logger.WithField("child", fmt.Sprintf("%T", op)).
				Warn("child operation of unexpected type discarded")
		}
	}
	return result
}

// ApplyToOperationsRecursively walks the entire subtree depth-first and
// invokes process on every descendant of dynamic type T, in traversal
// order.
func ApplyToOperationsRecursively[T Operation](s *Sequence, process func(T)) {
	for _, op := range s.operations {
		if seq, ok := op.(sequencer); ok {
			ApplyToOperationsRecursively(seq.sequence(), process)
		}
		if typed, ok := op.(T); ok {
			process(typed)
		}
	}
}

// childChain returns ancestors extended by node, as a fresh slice so sibling
// subtrees never share a backing array.
func childChain(ancestors []Operation, node Operation) []Operation {
	chain := make([]Operation, len(ancestors)+1)
	copy(chain, ancestors)
	chain[len(ancestors)] = node
	return chain
}

// previousEndPosition resolves the absolute position the machine is at just
// before op executes: the end position of the nearest preceding sibling at
// any ancestor level, falling back to an ancestor's explicit start position
// (a move sequence's seam, ultimately the layer start).
func previousEndPosition(op Operation) (geom.Point3, bool) {
	current := op
	for {
		parent := current.Parent()
		if parent == nil {
			return geom.Point3{}, false
		}
		seq, ok := parent.(sequencer)
		if !ok {
			return geom.Point3{}, false
		}
		ops := seq.sequence().operations
		for i := seq.sequence().indexOf(current) - 1; i >= 0; i-- {
			if p, ok := ops[i].FindEndPosition(); ok {
				return p, true
			}
		}
		if sp, ok := parent.(startPositioner); ok {
			if p, ok := sp.explicitStartPosition(); ok {
				return p, true
			}
		}
		current = parent
	}
}
