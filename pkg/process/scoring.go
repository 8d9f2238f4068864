// Start candidate scoring
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package process

import (
	"printplan-go/pkg/geom"
)

// ScoringCriterion rates a start candidate position in [0, 1]:
// 0 is fully acceptable, 1 is forbidden.
type ScoringCriterion interface {
	ComputeScore(candidate geom.Point3) float64
}

// CriteriaFactory builds the active criteria for one seam selection, given
// the position the nozzle travels from. A false haveFrom means the previous
// position is unknown (empty preceding plan).
type CriteriaFactory func(from geom.Point3, haveFrom bool) []ScoringCriterion

// FindBestCandidate returns the index of the candidate with the lowest
// combined score (sum over all criteria, each clamped to [0, 1]). Ties
// break on declaration order. ok is false for an empty candidate list.
func FindBestCandidate(candidates []geom.Point3, criteria []ScoringCriterion) (int, bool) {
	best := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		score := 0.0
		for _, criterion := range criteria {
			score += clamp01(criterion.ComputeScore(candidate))
		}
		if best < 0 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DistanceScoringCriterion prefers candidates close to the position the
// nozzle travels from. The distance is normalized against NormalizeMM;
// anything at or beyond that distance scores 1.
type DistanceScoringCriterion struct {
	From        geom.Point3
	NormalizeMM float64
}

// ComputeScore returns the normalized travel distance to the candidate.
func (c DistanceScoringCriterion) ComputeScore(candidate geom.Point3) float64 {
	if c.NormalizeMM <= 0 {
		return 0
	}
	return clamp01(geom.DistanceMM(c.From, candidate) / c.NormalizeMM)
}

// ExclusionAreaScoringCriterion forbids candidates inside any of the
// configured areas (a user-painted seam exclusion, a hole outline).
type ExclusionAreaScoringCriterion struct {
	Areas []geom.Polygon
}

// ComputeScore returns 1 for a candidate inside an exclusion area, 0
// otherwise.
func (c ExclusionAreaScoringCriterion) ComputeScore(candidate geom.Point3) float64 {
	pt := candidate.XY()
	for _, area := range c.Areas {
		if area.Inside(pt) {
			return 1
		}
	}
	return 0
}
