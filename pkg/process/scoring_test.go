package process

import (
	"math"
	"testing"

	"printplan-go/pkg/geom"
)

// fixedScores rates each candidate by its index.
type fixedScores []float64

func (s fixedScores) scores(candidates []geom.Point3) ScoringCriterion {
	return indexCriterion{scores: s, candidates: candidates}
}

type indexCriterion struct {
	scores     []float64
	candidates []geom.Point3
}

func (c indexCriterion) ComputeScore(candidate geom.Point3) float64 {
	for i, p := range c.candidates {
		if p == candidate {
			return c.scores[i]
		}
	}
	return 1
}

func TestFindBestCandidatePicksLowest(t *testing.T) {
	candidates := []geom.Point3{{X: 1}, {X: 2}, {X: 3}}
	criterion := fixedScores{0.8, 0.1, 0.1}.scores(candidates)

	best, ok := FindBestCandidate(candidates, []ScoringCriterion{criterion})
	if !ok || best != 1 {
		t.Errorf("best = %d, %v, want index 1 (first of the tied lowest)", best, ok)
	}
}

func TestFindBestCandidateSumsCriteria(t *testing.T) {
	candidates := []geom.Point3{{X: 1}, {X: 2}}
	a := fixedScores{0.2, 0.6}.scores(candidates)
	b := fixedScores{0.9, 0.1}.scores(candidates)

	// Sums: 1.1 vs 0.7.
	best, ok := FindBestCandidate(candidates, []ScoringCriterion{a, b})
	if !ok || best != 1 {
		t.Errorf("best = %d, %v, want index 1", best, ok)
	}
}

func TestFindBestCandidateClampsScores(t *testing.T) {
	candidates := []geom.Point3{{X: 1}, {X: 2}}
	// A runaway criterion must not dominate past the [0, 1] clamp.
	a := fixedScores{5.0, 1.0}.scores(candidates)
	b := fixedScores{0.0, 0.5}.scores(candidates)

	// Clamped sums: 1.0 vs 1.5.
	best, ok := FindBestCandidate(candidates, []ScoringCriterion{a, b})
	if !ok || best != 0 {
		t.Errorf("best = %d, %v, want index 0", best, ok)
	}
}

func TestFindBestCandidateEmpty(t *testing.T) {
	if _, ok := FindBestCandidate(nil, nil); ok {
		t.Error("empty candidate list must report no winner")
	}
}

func TestFindBestCandidateNoCriteria(t *testing.T) {
	best, ok := FindBestCandidate([]geom.Point3{{X: 1}, {X: 2}}, nil)
	if !ok || best != 0 {
		t.Errorf("best = %d, %v, want the first candidate", best, ok)
	}
}

func TestDistanceScoring(t *testing.T) {
	c := DistanceScoringCriterion{From: geom.Point3{}, NormalizeMM: 50}

	if got := c.ComputeScore(geom.Point3{}); got != 0 {
		t.Errorf("score at the origin = %v, want 0", got)
	}
	// 25mm of 50mm normalization.
	if got := c.ComputeScore(geom.Point3{X: 25000}); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("score at 25mm = %v, want 0.5", got)
	}
	// Beyond the normalization distance saturates at 1.
	if got := c.ComputeScore(geom.Point3{X: 100000}); got != 1 {
		t.Errorf("score at 100mm = %v, want 1", got)
	}
}

func TestExclusionAreaScoring(t *testing.T) {
	c := ExclusionAreaScoringCriterion{Areas: []geom.Polygon{{
		{X: 0, Y: 0}, {X: 10000, Y: 0}, {X: 10000, Y: 10000}, {X: 0, Y: 10000},
	}}}

	if got := c.ComputeScore(geom.Point3{X: 5000, Y: 5000}); got != 1 {
		t.Errorf("score inside = %v, want 1 (forbidden)", got)
	}
	if got := c.ComputeScore(geom.Point3{X: 50000, Y: 5000}); got != 0 {
		t.Errorf("score outside = %v, want 0", got)
	}
}
