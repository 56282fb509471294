package bff

import "github.com/golang/glog"

// sampleA picks a uniformly random grid cell (spec.md §4.4 step 1).
func (e *Engine) sampleA() (int, int) {
	x := e.rng.intn(e.cfg.Width)
	y := e.rng.intn(e.cfg.Height)
	return x, y
}

// sampleBGlobal resamples uniformly until it differs from A (spec.md §4.4
// step 2, global topology).
func (e *Engine) sampleBGlobal(xA, yA int) (int, int) {
	for {
		x := e.rng.intn(e.cfg.Width)
		y := e.rng.intn(e.cfg.Height)
		if x != xA || y != yA {
			return x, y
		}
	}
}

// sampleBSpatial draws a small neighbor offset in {-2..2}^2 and reports
// whether the interaction should abort (dx=dy=0, spec.md §4.4 step 2,
// spatial topology).
func (e *Engine) sampleBSpatial(xA, yA int) (x, y int, abort bool) {
	dx := e.rng.intn(5) - 2
	dy := e.rng.intn(5) - 2
	if dx == 0 && dy == 0 {
		return 0, 0, true
	}
	x = wrap(xA+dx, e.cfg.Width)
	y = wrap(yA+dy, e.cfg.Height)
	return x, y, false
}

// interact runs one pairwise interaction: samples A and B, concatenates
// their tapes into the reused scratch buffer, runs the VM, tallies
// per-interaction counters, completes the epoch if this was the epoch's
// last interaction, and writes the (possibly mutated) buffer back to the
// grid (spec.md §4.4).
func (e *Engine) interact() {
	xA, yA := e.sampleA()

	var xB, yB int
	switch e.cfg.Topology {
	case TopologyGlobal:
		xB, yB = e.sampleBGlobal(xA, yA)
	default: // TopologySpatial
		var abort bool
		xB, yB, abort = e.sampleBSpatial(xA, yA)
		if abort {
			return
		}
	}

	t := e.cfg.TapeSize
	offA, _ := e.g.cellRange(xA, yA)
	offB, _ := e.g.cellRange(xB, yB)
	copy(e.buf[0:t], e.g.data[offA:offA+t])
	copy(e.buf[t:2*t], e.g.data[offB:offB+t])

	result := e.vm.execute(e.buf, e.cfg.InstructionLimit)

	if result.unmatchedJump {
		e.unmatchedStreak++
		if e.unmatchedStreak == unmatchedBracketWarnThreshold {
			glog.Warningf("bff: %d consecutive interactions hit an unmatched bracket", e.unmatchedStreak)
		}
	} else {
		e.unmatchedStreak = 0
	}

	e.acc.totalComplexity += result.complexity
	e.acc.totalCopies += result.copies
	e.acc.totalEffective += result.neighborWrites
	e.acc.interactions++

	if e.acc.interactions >= e.cfg.Width*e.cfg.Height {
		e.completeEpoch()
	}

	copy(e.g.data[offA:offA+t], e.buf[0:t])
	copy(e.g.data[offB:offB+t], e.buf[t:2*t])
}

// Step runs n interactions in PRNG sequence order (spec.md §4.4 "step(n)",
// §5 ordering guarantees). It is synchronous and runs to completion.
func (e *Engine) Step(n uint32) {
	for i := uint32(0); i < n; i++ {
		e.interact()
	}
}
