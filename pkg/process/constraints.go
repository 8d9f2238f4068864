// Package process implements the transformation passes applied to a
// populated operation tree, in fixed order per extruder plan: ordering
// constraint resolution, travel move synthesis with scoring-based seam
// selection, and back-pressure flow compensation. Every pass is total and
// idempotent on an already-resolved tree.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package process

import (
	"printplan-go/pkg/errors"
	"printplan-go/pkg/log"
	"printplan-go/pkg/plan"
)

var logger = log.GetLogger("process")

// OrderingConstraint requires Before to be printed ahead of After within
// the same extruder plan.
type OrderingConstraint struct {
	Before *plan.FeatureExtrusion
	After  *plan.FeatureExtrusion
}

// ConstraintsGenerator contributes precedence pairs for a feature list.
// Generators follow the append pattern: they return the extended slice.
type ConstraintsGenerator interface {
	AppendConstraints(features []*plan.FeatureExtrusion, constraints []OrderingConstraint) []OrderingConstraint
}

// FeatureOrderingProcessor reorders the feature extrusions of an extruder
// plan to a deterministic topological order of the merged constraint set.
// Features without a mutual constraint keep their insertion order. A cyclic
// constraint set aborts the pass with a diagnostic and keeps the insertion
// order, so the print is never silently corrupted.
type FeatureOrderingProcessor struct {
	generators []ConstraintsGenerator
}

// NewFeatureOrderingProcessor creates the ordering pass from the configured
// constraint generators.
func NewFeatureOrderingProcessor(generators ...ConstraintsGenerator) *FeatureOrderingProcessor {
	return &FeatureOrderingProcessor{generators: generators}
}

// Process resolves the feature order of an extruder plan. Non-feature
// children (travel routes from a previous resolution) are preserved only
// when the order is already resolved; a genuine reorder rebuilds the child
// list from the features alone, invalidating stale travel routes.
func (p *FeatureOrderingProcessor) Process(op plan.Operation, ancestors []plan.Operation) {
	extruderPlan, ok := op.(*plan.ExtruderPlan)
	if !ok {
		return
	}

	features := featureChildren(extruderPlan)
	if len(features) < 2 {
		return
	}

	var constraints []OrderingConstraint
	for _, g := range p.generators {
		constraints = g.AppendConstraints(features, constraints)
	}
	if len(constraints) == 0 {
		return
	}

	ordered, err := sortByConstraints(features, constraints)
	if err != nil {
		logger.WithError(err).WithField("extruder", extruderPlan.Extruder()).
			Error("constraint resolution failed, keeping insertion order")
		return
	}

	if sameOrder(features, ordered) {
		return
	}

	ops := make([]plan.Operation, len(ordered))
	for i, f := range ordered {
		ops[i] = f
	}
	extruderPlan.SetOperations(ops)
}

// featureChildren collects the direct feature extrusions, tolerating
// heterogeneous child lists produced by earlier passes.
func featureChildren(extruderPlan *plan.ExtruderPlan) []*plan.FeatureExtrusion {
	ops := extruderPlan.Operations()
	features := make([]*plan.FeatureExtrusion, 0, len(ops))
	for _, op := range ops {
		if f, ok := op.(*plan.FeatureExtrusion); ok {
			features = append(features, f)
		}
	}
	return features
}

func sameOrder(a, b []*plan.FeatureExtrusion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortByConstraints is a stable topological sort: among the features whose
// predecessors are all placed, the one earliest in insertion order goes
// next. A cycle yields a CONSTRAINT_CYCLE error.
func sortByConstraints(features []*plan.FeatureExtrusion, constraints []OrderingConstraint) ([]*plan.FeatureExtrusion, error) {
	index := make(map[*plan.FeatureExtrusion]int, len(features))
	for i, f := range features {
		index[f] = i
	}

	indegree := make([]int, len(features))
	successors := make([][]int, len(features))
	seen := make(map[[2]int]struct{}, len(constraints))
	for _, c := range constraints {
		before, okB := index[c.Before]
		after, okA := index[c.After]
		if !okB || !okA || before == after {
			continue
		}
		key := [2]int{before, after}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		successors[before] = append(successors[before], after)
		indegree[after]++
	}

	ordered := make([]*plan.FeatureExtrusion, 0, len(features))
	placed := make([]bool, len(features))
	for len(ordered) < len(features) {
		next := -1
		for i := range features {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, errors.ConstraintCycleError(0, len(features))
		}
		placed[next] = true
		ordered = append(ordered, features[next])
		for _, succ := range successors[next] {
			indegree[succ]--
		}
	}
	return ordered, nil
}

// InsetOrderingGenerator produces wall precedence constraints from inset
// indexes: with OuterFirst set, lower inset indexes (outermost rings) print
// before higher ones; otherwise the order is inverted.
type InsetOrderingGenerator struct {
	OuterFirst bool
}

// AppendConstraints adds one pair per ordered wall couple. Non-wall
// features are ignored.
func (g InsetOrderingGenerator) AppendConstraints(features []*plan.FeatureExtrusion, constraints []OrderingConstraint) []OrderingConstraint {
	for _, a := range features {
		idxA, okA := a.InsetIndex()
		if !okA {
			continue
		}
		for _, b := range features {
			if a == b {
				continue
			}
			idxB, okB := b.InsetIndex()
			if !okB || idxA >= idxB {
				continue
			}
			if g.OuterFirst {
				constraints = append(constraints, OrderingConstraint{Before: a, After: b})
			} else {
				constraints = append(constraints, OrderingConstraint{Before: b, After: a})
			}
		}
	}
	return constraints
}

// FeatureTypeOrderingGenerator constrains one feature type to print before
// another, e.g. support roofs before support infill.
type FeatureTypeOrderingGenerator struct {
	First plan.FeatureType
	Then  plan.FeatureType
}

// AppendConstraints adds one pair per (First, Then) feature couple.
func (g FeatureTypeOrderingGenerator) AppendConstraints(features []*plan.FeatureExtrusion, constraints []OrderingConstraint) []OrderingConstraint {
	for _, a := range features {
		if a.Type() != g.First {
			continue
		}
		for _, b := range features {
			if b.Type() == g.Then {
				constraints = append(constraints, OrderingConstraint{Before: a, After: b})
			}
		}
	}
	return constraints
}
