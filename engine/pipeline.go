// Copyright © 2024 Galvanized Logic Inc.

// Package engine drives the fixed-step tick pipeline: a two-goroutine
// main/aux rendezvous synchronised by counting semaphores (spec.md
// §4.F, §5), frame pacing (pace.go), and save/restore (save.go).
//
// The main/aux handshake is grounded on the teacher's eng.go Action
// accumulator loop, generalized from one render-coupled thread to two
// cooperating goroutines. Rather than a channel-based barrier, the
// rendezvous uses a pair of golang.org/x/sync/semaphore.Weighted(1)
// gates, matching spec.md §9's explicit preference for "a single
// counting-semaphore pair... over a higher-level channel abstraction to
// preserve bit-exact ordering". The original C++ GameStage primes its
// mainSemaphore with two posts before aux's first wait, but that is safe
// there only because main's first two waits gate UI/loader phases that
// never touch world state; our mainLoop's matching Acquire gates
// phase3Main, which does mutate the world, so priming it with surplus
// permits would let phase3Main run before aux's real phase2/phase3Aux
// for that tick has finished — an actual unsynchronized write/write
// race, not just a cosmetic deviation. mainSem therefore starts at zero
// permits and is earned strictly once per tick by aux's own
// phase3Aux-then-Release, so main can never get ahead of aux's work for
// the same tick.
package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/ozcore/openzone/ai"
	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/physics"
	"github.com/ozcore/openzone/world"
)

// command is a spawn or destroy staged mid-phase and flushed at the
// phase 2/3 boundary (spec.md §5: "a destroy of an object mid-phase is
// staged onto a pending remove queue and applied at end of phase 2").
type command func(*world.World)

// Pipeline owns the world, the collider, and the main/aux goroutine
// pair that advance it one fixed Tick at a time.
type Pipeline struct {
	world  *world.World
	col    *collider.Collider
	script ScriptHost

	mainSem *semaphore.Weighted
	auxSem  *semaphore.Weighted
	alive   atomic.Bool

	mu      sync.Mutex
	pending []command
	minds   []*ai.Mind

	pace   *pacer
	camera lin.T
	frame  Frame
}

// RegisterMind adds a Bot's AI mind to the set synced every phase 3
// ("nirvana", spec.md §4.F phase 3).
func (p *Pipeline) RegisterMind(m *ai.Mind) {
	p.mu.Lock()
	p.minds = append(p.minds, m)
	p.mu.Unlock()
}

// NewPipeline returns a Pipeline ready to Run against w.
func NewPipeline(w *world.World, script ScriptHost) *Pipeline {
	if script == nil {
		script = NullScriptHost{}
	}
	p := &Pipeline{
		world:   w,
		col:     collider.New(w),
		script:  script,
		mainSem: semaphore.NewWeighted(1),
		auxSem:  semaphore.NewWeighted(1),
		pace:    newPacer(),
	}
	// NewWeighted(1) starts with its permit free; take both so each gate
	// starts at zero and opens only on the other goroutine's Release.
	p.mainSem.TryAcquire(1)
	p.auxSem.TryAcquire(1)
	p.alive.Store(true)
	return p
}

// QueueSpawn stages a world mutation to run at the end of phase 2,
// matching spec.md §4.F phase 3's "flushes queued spawn/destroy
// commands into the world".
func (p *Pipeline) QueueSpawn(fn func(*world.World)) {
	p.mu.Lock()
	p.pending = append(p.pending, fn)
	p.mu.Unlock()
}

// QueueDestroyObject stages an object destroy to run at the phase
// 2/3 boundary, invoking the class's onDestroy script hook first
// (spec.md §6's class-declared handlers).
func (p *Pipeline) QueueDestroyObject(id world.ObjectId) {
	p.QueueSpawn(func(w *world.World) {
		if err := p.script.OnDestroy(w, id); err != nil {
			_ = newErr(ErrScriptFault, "Pipeline.QueueDestroyObject", err)
		}
		w.Objects.Destroy(id)
	})
}

// SetCamera updates the camera transform phase 1 publishes into the next
// Frame. Called by the application's input/UI handling during phase 1.
func (p *Pipeline) SetCamera(t lin.T) {
	p.mu.Lock()
	p.camera = t
	p.mu.Unlock()
}

// Frame returns the most recently published read-only snapshot.
func (p *Pipeline) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Run drives the pipeline until ctx is cancelled or Stop is called,
// then joins the aux goroutine before returning. It fires the mission's
// onCreate hook once before the first tick (spec.md §6).
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.script.OnCreate(p.world); err != nil {
		_ = newErr(ErrScriptFault, "Pipeline.Run", err)
	}

	auxDone := make(chan struct{})
	go func() {
		defer close(auxDone)
		p.auxLoop(ctx)
	}()

	err := p.mainLoop(ctx)
	p.Stop()
	p.auxSem.Release(1)
	<-auxDone
	return err
}

// Stop makes Run's main loop return before its next batch of ticks; Run
// then wakes the aux goroutine, which exits at its wait (spec.md §4.F's
// cancellation sequence).
func (p *Pipeline) Stop() {
	p.alive.Store(false)
}

func (p *Pipeline) mainLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !p.alive.Load() {
			return nil
		}

		ticks := p.pace.Advance()
		for i := 0; i < ticks; i++ {
			p.phase1(ctx)

			p.auxSem.Release(1)
			if err := p.mainSem.Acquire(ctx, 1); err != nil {
				return err
			}

			p.phase3Main()
		}
		p.pace.Sleep()
	}
}

func (p *Pipeline) auxLoop(ctx context.Context) {
	// mainSem starts unearned: the first mainLoop Acquire only succeeds
	// once this loop has actually run phase2/phase3Aux for tick one and
	// posted its own Release below, so main can never run phase3Main
	// concurrently with aux's matching phase2.
	for {
		if err := p.auxSem.Acquire(ctx, 1); err != nil {
			return
		}
		if !p.alive.Load() {
			return
		}

		p.phase2()
		p.phase3Aux()

		p.mainSem.Release(1)
	}
}

// phase1 runs input/UI/Lua onUpdate with the world read-only (spec.md
// §4.F phase 1).
func (p *Pipeline) phase1(ctx context.Context) {
	if err := p.script.OnUpdate(p.world); err != nil {
		_ = newErr(ErrScriptFault, "Pipeline.phase1", err)
	}
}

// phase2 is aux's exclusive window to mutate the grid, objects and
// structs: collider, physics, entity FSMs (spec.md §4.C/§4.D/§4.E).
func (p *Pipeline) phase2() {
	physics.Simulate(p.world, p.col)
	physics.SimulateFragments(p.world, p.col)
	p.stepEntities()
}

func (p *Pipeline) stepEntities() {
	p.world.Structs.Each(func(s *world.Struct) {
		env := &structEntityEnv{w: p.world, c: p.col, s: s}
		for i := range s.Entities {
			s.Step(i, env)
		}
	})
}

// phase3Aux ticks every registered AI mind against the live world (no
// copy of world state is taken), then flushes queued spawn/destroy
// commands into the world (spec.md §4.F phase 3).
func (p *Pipeline) phase3Aux() {
	p.mu.Lock()
	cmds := p.pending
	p.pending = nil
	minds := p.minds
	p.mu.Unlock()

	for _, m := range minds {
		m.Tick(p.world)
	}

	for _, cmd := range cmds {
		cmd(p.world)
	}

	p.mu.Lock()
	camera := p.camera
	p.mu.Unlock()

	events := p.world.DrainEvents()
	p.dispatchEvents(events)
	frame := buildFrame(p.world, camera, events)

	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()
}

// dispatchEvents forwards the tick's drained events to the matching
// class-declared handler (spec.md §6). Events with no handler (EvCreate,
// EvSplash, EvFricting, EvJump, EvLand, EvStep, EvShotEmpty, EvEngine)
// reach only the audio presenter via Frame.Events.
func (p *Pipeline) dispatchEvents(events []world.Event) {
	for _, ev := range events {
		var err error
		switch ev.Kind {
		case world.EvDamage:
			err = p.script.OnDamage(p.world, ev.Object, ev.Intensity)
		case world.EvHit:
			err = p.script.OnHit(p.world, ev.Object, world.NilObject)
		case world.EvUse:
			err = p.script.OnUse(p.world, ev.Object, world.NilObject)
		case world.EvShot:
			err = p.script.OnShot(p.world, ev.Object, world.NilObject)
		default:
			continue
		}
		if err != nil {
			_ = newErr(ErrScriptFault, "Pipeline.dispatchEvents", err)
		}
	}
}

// phase3Main lets main mutate the world for Lua-driven spawns outside
// of matrix update, then loops to phase 1 (spec.md §4.F phase 3).
func (p *Pipeline) phase3Main() {
	p.mu.Lock()
	cmds := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, cmd := range cmds {
		cmd(p.world)
	}
}
