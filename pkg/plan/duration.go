package plan

import (
	"printplan-go/pkg/geom"
)

// EstimateDuration returns the estimated execution time of a subtree in
// seconds, from segment lengths and the effective velocities leaves export
// with. Used for temperature-insert thresholds and by the orchestration
// layer's heating lookahead.
func EstimateDuration(op Operation) float64 {
	est := durationEstimator{}
	if p, ok := previousEndPosition(op); ok {
		est.pos, est.hasPos = p, true
	} else if p, ok := op.FindStartPosition(); ok {
		est.pos, est.hasPos = p, true
	}
	est.walk(op, 0)
	return est.total
}

type durationEstimator struct {
	pos    geom.Point3
	hasPos bool
	total  float64
}

func (e *durationEstimator) walk(op Operation, speed geom.Velocity) {
	switch node := op.(type) {
	case *FeatureExtrusion:
		speed = node.EffectiveSpeed()
	case *TravelRoute:
		speed = node.Speed()
	case *ExtruderPlan:
		speed = node.TravelSpeed()
	case *ExtrusionMove, *TravelMove:
		e.segment(op, speed)
		return
	}
	if seq, ok := op.(sequencer); ok {
		for _, child := range seq.sequence().operations {
			e.walk(child, speed)
		}
	}
}

func (e *durationEstimator) segment(leaf Operation, speed geom.Velocity) {
	p, ok := leaf.FindEndPosition()
	if !ok {
		return
	}
	if e.hasPos && speed > 0 {
		e.total += geom.DistanceMM(e.pos, p) / float64(speed)
	}
	e.pos, e.hasPos = p, true
}
