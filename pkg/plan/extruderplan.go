// Per-extruder plan with the temperature insert queue
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package plan

import (
	"printplan-go/pkg/geom"
)

// TemperatureInsert is a pending nozzle temperature change, emitted during
// export once both its path index and its elapsed-time threshold have been
// reached.
type TemperatureInsert struct {
	// PathIndex is the child index in the extruder plan before which the
	// insert becomes eligible
	PathIndex int

	// TimeAfterStart is the elapsed plan time in seconds that must have
	// passed before the insert is emitted
	TimeAfterStart float64

	// Extruder is the target extruder index
	Extruder int

	// Temperature is the target temperature in degrees Celsius
	Temperature float64

	// Wait stalls the machine until the temperature is reached
	Wait bool
}

// ExtruderPlan is everything printed by one extruder on one layer: an
// ordered list of feature extrusions and travel routes, plus the queue of
// pending temperature inserts. One plan is only ever touched by the single
// worker that owns its tree.
type ExtruderPlan struct {
	Sequence
	extruder    int
	travelSpeed geom.Velocity
	fanSpeed    float64 // percent, negative when unset

	inserts    []TemperatureInsert
	nextInsert int
}

// NewExtruderPlan creates an empty plan for one extruder.
func NewExtruderPlan(extruder int, travelSpeed geom.Velocity) *ExtruderPlan {
	p := &ExtruderPlan{
		extruder:    extruder,
		travelSpeed: travelSpeed,
		fanSpeed:    -1,
	}
	p.initSequence(p)
	return p
}

// Extruder returns the extruder index.
func (p *ExtruderPlan) Extruder() int { return p.extruder }

// TravelSpeed returns the travel speed profile for this extruder.
func (p *ExtruderPlan) TravelSpeed() geom.Velocity { return p.travelSpeed }

// FanSpeed returns the current fan speed in percent; ok is false when no
// fan speed has been set.
func (p *ExtruderPlan) FanSpeed() (float64, bool) {
	if p.fanSpeed < 0 {
		return 0, false
	}
	return p.fanSpeed, true
}

// SetFanSpeed sets the fan speed in percent.
func (p *ExtruderPlan) SetFanSpeed(percent float64) {
	p.fanSpeed = percent
}

// AppendFeatureExtrusion adds a feature at the end of the plan. With
// checkNonEmpty set, empty features are dropped.
func (p *ExtruderPlan) AppendFeatureExtrusion(feature *FeatureExtrusion, checkNonEmpty bool) {
	if checkNonEmpty && feature.Empty() {
		return
	}
	p.AppendOperation(feature)
}

// InsertTemperatureCommand queues a temperature insert. Inserts are emitted
// strictly in queue order.
func (p *ExtruderPlan) InsertTemperatureCommand(insert TemperatureInsert) {
	p.inserts = append(p.inserts, insert)
}

// Write emits the fan speed, then every child in order, interleaving queued
// temperature inserts once their path index and time threshold are reached.
// Inserts still pending after the last child are flushed at the end.
func (p *ExtruderPlan) Write(exporter Exporter, ancestors []Operation) error {
	childAncestors := childChain(ancestors, p.self)

	if fan, ok := p.FanSpeed(); ok {
		if fw, ok := exporter.(FanSpeedWriter); ok {
			if err := fw.WriteFanSpeed(fan); err != nil {
				return err
			}
		}
	}

	p.nextInsert = 0
	elapsed := 0.0
	for i, op := range p.operations {
		if err := p.handleInserts(i, elapsed, exporter); err != nil {
			return err
		}
		if err := op.Write(exporter, childAncestors); err != nil {
			return err
		}
		elapsed += EstimateDuration(op)
	}
	return p.handleAllRemainingInserts(exporter)
}

// handleInserts emits every queued insert that has become eligible before
// the path at pathIdx starts.
func (p *ExtruderPlan) handleInserts(pathIdx int, elapsed float64, exporter Exporter) error {
	for p.nextInsert < len(p.inserts) &&
		pathIdx >= p.inserts[p.nextInsert].PathIndex &&
		p.inserts[p.nextInsert].TimeAfterStart < elapsed {
		if err := p.writeInsert(p.inserts[p.nextInsert], exporter); err != nil {
			return err
		}
		p.nextInsert++
	}
	return nil
}

// handleAllRemainingInserts flushes the queue at the end of the plan.
func (p *ExtruderPlan) handleAllRemainingInserts(exporter Exporter) error {
	for ; p.nextInsert < len(p.inserts); p.nextInsert++ {
		if err := p.writeInsert(p.inserts[p.nextInsert], exporter); err != nil {
			return err
		}
	}
	return nil
}

func (p *ExtruderPlan) writeInsert(insert TemperatureInsert, exporter Exporter) error {
	tw, ok := exporter.(TemperatureWriter)
	if !ok {
		logger.WithField("extruder", insert.Extruder).
			Debug("exporter does not support temperature commands, insert skipped")
		return nil
	}
	return tw.WriteTemperatureCommand(insert.Extruder, insert.Temperature, insert.Wait)
}
