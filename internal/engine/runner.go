package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
)

// World is the collaborator the runner drives minds against. Implemented
// by internal/world for the demo and by test fakes.
type World interface {
	// Body returns the creature's current physiological snapshot.
	Body(id knowledge.EntityID) body.Snapshot
	// Locate returns the creature's own cell.
	Locate(id knowledge.EntityID) (knowledge.Cell, bool)
	// Perceive returns what the creature can currently see.
	Perceive(id knowledge.EntityID) []Observation
	// Execute attempts the chosen action and reports what happened.
	Execute(id knowledge.EntityID, act ChosenAction, now float64) []OutcomeEvent
}

// Advancer is optionally implemented by worlds with their own physics
// (regrowth, physiology). The runner advances the world before the minds
// sense it.
type Advancer interface {
	Advance(now float64)
}

// Journal receives decision telemetry; persistence implements it. A nil
// journal is valid and drops everything.
type Journal interface {
	Decision(tick uint64, agent knowledge.EntityID, act ChosenAction)
	Replan(tick uint64, agent knowledge.EntityID, total uint64)
}

// Runner owns the population and the tick loop. Each tick, minds sense
// and decide in parallel (each goroutine touches exactly one mind and only
// reads the world), then actions execute sequentially against the world.
type Runner struct {
	world   World
	journal Journal
	log     *slog.Logger

	minds          []*Mind
	tick           uint64
	secondsPerTick float64
	lastReplans    map[knowledge.EntityID]uint64
}

func NewRunner(world World, journal Journal, secondsPerTick float64, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		world:          world,
		journal:        journal,
		log:            log,
		secondsPerTick: secondsPerTick,
		lastReplans:    make(map[knowledge.EntityID]uint64),
	}
}

// Add registers a mind. Not safe to call while ticking.
func (r *Runner) Add(m *Mind) {
	r.minds = append(r.minds, m)
}

// Minds returns the population for introspection.
func (r *Runner) Minds() []*Mind { return r.minds }

// Mind finds one mind by id, nil if absent.
func (r *Runner) Mind(id knowledge.EntityID) *Mind {
	for _, m := range r.minds {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// Tick returns the current tick counter.
func (r *Runner) Tick() uint64 { return r.tick }

// Now returns the current simulation time in seconds.
func (r *Runner) Now() float64 { return float64(r.tick) * r.secondsPerTick }

// Step advances the simulation one tick.
func (r *Runner) Step() {
	now := r.Now()
	if a, ok := r.world.(Advancer); ok {
		a.Advance(now)
	}
	chosen := make([]ChosenAction, len(r.minds))

	var wg sync.WaitGroup
	for i, m := range r.minds {
		wg.Add(1)
		go func(i int, m *Mind) {
			defer wg.Done()
			if cell, ok := r.world.Locate(m.ID()); ok {
				m.ObserveSelf(now, cell)
			}
			m.Observe(now, r.world.Perceive(m.ID()))
			chosen[i] = m.DecisionTick(r.tick, now, r.world.Body(m.ID()))
		}(i, m)
	}
	wg.Wait()

	for i, m := range r.minds {
		for _, ev := range r.world.Execute(m.ID(), chosen[i], now) {
			m.Ingest(ev)
		}
		if r.journal != nil {
			r.journal.Decision(r.tick, m.ID(), chosen[i])
			if total := m.Replans(); total > r.lastReplans[m.ID()] {
				r.lastReplans[m.ID()] = total
				r.journal.Replan(r.tick, m.ID(), total)
			}
		}
	}

	r.tick++
}

// Run steps the simulation at the given wall-clock rate until the context
// is cancelled.
func (r *Runner) Run(ctx context.Context, tickEvery time.Duration) {
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	r.log.Info("simulation running",
		"agents", len(r.minds), "tick_every", tickEvery.String())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("simulation stopped", "ticks", r.tick)
			return
		case <-ticker.C:
			r.Step()
		}
	}
}
