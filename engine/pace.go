// Copyright © 2024 Galvanized Logic Inc.

package engine

import (
	"time"

	"github.com/ozcore/openzone/world"
)

// capTime guards against the spiral of death: any single iteration that
// measured longer than this has its excess dropped rather than fed back
// into the update accumulator, matching spec.md §4.F's "if a tick plus
// render takes... drops the excess and records it as dropped time (so
// the simulation clock does not try to catch up to wall clock)".
const capTime = 200 * time.Millisecond

// pacer accumulates wall-clock time and releases it in fixed world.Tick
// increments, the same accumulator shape as the teacher's eng.go Action
// loop generalized from a render-coupled single thread to a pipeline
// that can be driven once per iteration from Pipeline.Run.
type pacer struct {
	accumulated time.Duration
	dropped     time.Duration
	lastTime    time.Time
}

func newPacer() *pacer {
	return &pacer{lastTime: time.Now()}
}

// tickDuration is world.Tick expressed as a time.Duration.
var tickDuration = time.Duration(world.Tick * float64(time.Second))

// Advance measures the elapsed wall time since the previous call and
// returns how many fixed ticks should run this iteration.
func (p *pacer) Advance() int {
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	p.lastTime = now

	if elapsed > capTime {
		p.dropped += elapsed - capTime
		elapsed = capTime
	}
	p.accumulated += elapsed

	ticks := 0
	for p.accumulated >= tickDuration {
		p.accumulated -= tickDuration
		ticks++
	}
	return ticks
}

// Sleep yields the remainder of the current iteration back to the OS
// when there is slack before the next tick is due, mirroring eng.go's
// "ease up on the CPU" sleep.
func (p *pacer) Sleep() {
	if p.accumulated < tickDuration {
		time.Sleep(tickDuration - p.accumulated)
	}
}

// Dropped reports total wall time discarded to the spiral-of-death cap,
// useful for diagnostics/benchmarks (-t flag).
func (p *pacer) Dropped() time.Duration { return p.dropped }
