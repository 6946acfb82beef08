// Package world is the demo collaborator the minds are exercised against:
// a noise-generated grid of berry bushes and apple trees with stock
// regeneration, simple creature physiology, and an action executor that
// reports outcome events back to cognition. It deliberately stays dumb;
// everything interesting happens in the minds.
package world

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/engine"
	"github.com/talgya/wildmind/internal/knowledge"
)

// Physiology tuning, per simulated second.
const (
	hungerRisePerSec  = 0.08
	energyDropPerSec  = 0.05
	sleepRegenPerSec  = 0.8
	eatHungerRelief   = 35.0
	moveEnergyCost    = 0.1
	harvestYield      = 1
	fearDecayPerSec   = 0.02
	joyDecayPerSec    = 0.05
)

// Resource is one harvestable plant.
type Resource struct {
	ID       knowledge.EntityID
	Kind     knowledge.Concept // BerryBush or AppleTree
	Item     knowledge.Concept // Berry or Apple
	Cell     knowledge.Cell
	Stock    int
	MaxStock int

	regenAt float64 // next restock time
}

// Creature is the body-side state of one agent.
type Creature struct {
	ID    knowledge.EntityID
	Cell  knowledge.Cell
	State body.Snapshot
	Pouch map[knowledge.Concept]int
}

// World holds the grid state. Single-threaded: the runner reads it
// concurrently during the sense phase but mutates it only sequentially.
type World struct {
	cfg Config
	log *slog.Logger
	rng *rand.Rand

	resources []*Resource
	byID      map[knowledge.EntityID]*Resource
	creatures map[knowledge.EntityID]*Creature
	order     []knowledge.EntityID // creature iteration order

	lastAdvance float64
}

// Resources exposes the plant list for the API layer.
func (w *World) Resources() []*Resource { return w.resources }

// Creature returns one creature's state, nil if unknown.
func (w *World) Creature(id knowledge.EntityID) *Creature { return w.creatures[id] }

// CreatureCount returns the population size.
func (w *World) CreatureCount() int { return len(w.order) }

// Spawn places n creatures spread across the map and returns their ids.
// Creature ids start above the resource id range.
func (w *World) Spawn(n int) []knowledge.EntityID {
	ids := make([]knowledge.EntityID, 0, n)
	base := knowledge.EntityID(len(w.resources) + 1000)
	for i := 0; i < n; i++ {
		id := base + knowledge.EntityID(i)
		c := &Creature{
			ID: id,
			Cell: knowledge.Cell{
				X: w.rng.Intn(w.cfg.Width),
				Y: w.rng.Intn(w.cfg.Height),
			},
			State: body.Snapshot{
				Hunger: 20 + w.rng.Float64()*30,
				Energy: 70 + w.rng.Float64()*30,
				Health: 100, Alertness: 1,
			},
			Pouch: make(map[knowledge.Concept]int),
		}
		w.creatures[id] = c
		w.order = append(w.order, id)
		ids = append(ids, id)
	}
	w.log.Info("creatures spawned", "count", n)
	return ids
}

// Advance runs world physics up to now: resource regrowth and creature
// physiology. Called by the runner before the sense phase.
func (w *World) Advance(now float64) {
	dt := now - w.lastAdvance
	if dt <= 0 {
		return
	}
	w.lastAdvance = now

	for _, r := range w.resources {
		for r.Stock < r.MaxStock && now >= r.regenAt {
			r.Stock++
			r.regenAt += w.cfg.RegenSeconds
		}
		if r.Stock == r.MaxStock {
			r.regenAt = now + w.cfg.RegenSeconds
		}
	}

	for _, id := range w.order {
		c := w.creatures[id]
		s := &c.State
		s.Hunger = clamp(s.Hunger+hungerRisePerSec*dt, 0, 100)
		if s.Asleep {
			s.Energy = clamp(s.Energy+sleepRegenPerSec*dt, 0, 100)
			s.Alertness = 0.1
		} else {
			s.Energy = clamp(s.Energy-energyDropPerSec*dt, 0, 100)
			s.Alertness = clamp(0.3+s.Energy/100*0.7, 0, 1)
		}
		s.Fear = clamp(s.Fear-fearDecayPerSec*dt, 0, 1)
		s.Joy = clamp(s.Joy-joyDecayPerSec*dt, 0, 1)
		s.Stress = clamp(s.Hunger*0.4+(100-s.Energy)*0.3+s.Pain*0.3, 0, 100)
	}
}

// Body implements engine.World.
func (w *World) Body(id knowledge.EntityID) body.Snapshot {
	if c, ok := w.creatures[id]; ok {
		return c.State
	}
	return body.Snapshot{}
}

// Locate implements engine.World.
func (w *World) Locate(id knowledge.EntityID) (knowledge.Cell, bool) {
	if c, ok := w.creatures[id]; ok {
		return c.Cell, true
	}
	return knowledge.Cell{}, false
}

// Perceive implements engine.World: every resource within the vision
// radius, stock included.
func (w *World) Perceive(id knowledge.EntityID) []engine.Observation {
	c, ok := w.creatures[id]
	if !ok {
		return nil
	}
	var out []engine.Observation
	for _, r := range w.resources {
		if dist(c.Cell, r.Cell) > w.cfg.VisionRadius {
			continue
		}
		out = append(out, engine.Observation{
			Entity:   r.ID,
			Concepts: []knowledge.Concept{r.Kind},
			Cell:     r.Cell,
			Item:     r.Item,
			Qty:      r.Stock,
			HasStock: true,
		})
	}
	return out
}

// Execute implements engine.World.
func (w *World) Execute(id knowledge.EntityID, act engine.ChosenAction, now float64) []engine.OutcomeEvent {
	c, ok := w.creatures[id]
	if !ok {
		return nil
	}

	switch act.Kind {
	case knowledge.ActionMoveTo:
		if act.Target.Kind == knowledge.NodeCell {
			w.stepToward(c, act.Target.Cell)
		}
	case knowledge.ActionHarvest:
		return w.harvest(c, act, now)
	case knowledge.ActionEat:
		return w.eat(c, act, now)
	case knowledge.ActionSleep:
		c.State.Asleep = true
	case knowledge.ActionWakeUp:
		c.State.Asleep = false
	case knowledge.ActionWander, knowledge.ActionExplore:
		w.stepToward(c, knowledge.Cell{
			X: w.rng.Intn(w.cfg.Width),
			Y: w.rng.Intn(w.cfg.Height),
		})
	case knowledge.ActionFlee:
		// Run away from the threat, or just away.
		from := c.Cell
		if act.Target.Kind == knowledge.NodeEntity {
			if r, ok := w.byID[act.Target.Entity]; ok {
				from = r.Cell
			}
		}
		w.stepAway(c, from)
	}
	return nil
}

func (w *World) harvest(c *Creature, act engine.ChosenAction, now float64) []engine.OutcomeEvent {
	if act.Target.Kind != knowledge.NodeEntity {
		return nil
	}
	r, ok := w.byID[act.Target.Entity]
	if !ok || dist(c.Cell, r.Cell) > 0 {
		return []engine.OutcomeEvent{{
			Kind: knowledge.ActionHarvest, Target: act.Target.Entity,
			Result: engine.OutcomeFailed, Item: r2item(r),
			Emotion: knowledge.EmotionSadness, Intensity: 0.2, Time: now,
		}}
	}
	if r.Stock <= 0 {
		return []engine.OutcomeEvent{{
			Kind: knowledge.ActionHarvest, Target: r.ID,
			Result: engine.OutcomeResourceDepleted, Item: r.Item,
			Emotion: knowledge.EmotionSadness, Intensity: 0.3, Time: now,
		}}
	}
	r.Stock -= harvestYield
	c.Pouch[r.Item] += harvestYield
	c.State.Joy = clamp(c.State.Joy+0.2, 0, 1)
	return []engine.OutcomeEvent{{
		Kind: knowledge.ActionHarvest, Target: r.ID,
		Result: engine.OutcomeSucceeded, Item: r.Item, Gained: harvestYield,
		Emotion: knowledge.EmotionJoy, Intensity: 0.3, Time: now,
	}}
}

func (w *World) eat(c *Creature, act engine.ChosenAction, now float64) []engine.OutcomeEvent {
	item := knowledge.ConceptBerry
	if act.Target.Kind == knowledge.NodeConcept {
		item = act.Target.Concept
	}
	if c.Pouch[item] <= 0 {
		return []engine.OutcomeEvent{{
			Kind: knowledge.ActionEat, Result: engine.OutcomeMissingItem, Item: item,
			Emotion: knowledge.EmotionSurprise, Intensity: 0.4, Time: now,
		}}
	}
	c.Pouch[item]--
	c.State.Hunger = clamp(c.State.Hunger-eatHungerRelief, 0, 100)
	c.State.Joy = clamp(c.State.Joy+0.3, 0, 1)
	return []engine.OutcomeEvent{{
		Kind: knowledge.ActionEat, Result: engine.OutcomeSucceeded, Item: item, Consumed: 1,
		Emotion: knowledge.EmotionJoy, Intensity: 0.4, Time: now,
	}}
}

func (w *World) stepToward(c *Creature, to knowledge.Cell) {
	from := c.Cell
	switch {
	case from.X < to.X:
		from.X++
	case from.X > to.X:
		from.X--
	case from.Y < to.Y:
		from.Y++
	case from.Y > to.Y:
		from.Y--
	}
	c.Cell = w.clampCell(from)
	c.State.Energy = clamp(c.State.Energy-moveEnergyCost, 0, 100)
}

func (w *World) stepAway(c *Creature, threat knowledge.Cell) {
	to := knowledge.Cell{
		X: c.Cell.X + sign(c.Cell.X-threat.X),
		Y: c.Cell.Y + sign(c.Cell.Y-threat.Y),
	}
	if to == c.Cell {
		to.X++ // cornered on top of the threat: pick a direction
	}
	c.Cell = w.clampCell(to)
	c.State.Energy = clamp(c.State.Energy-moveEnergyCost, 0, 100)
}

func (w *World) clampCell(c knowledge.Cell) knowledge.Cell {
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = 0
	}
	if c.X >= w.cfg.Width {
		c.X = w.cfg.Width - 1
	}
	if c.Y >= w.cfg.Height {
		c.Y = w.cfg.Height - 1
	}
	return c
}

func r2item(r *Resource) knowledge.Concept {
	if r == nil {
		return knowledge.ConceptBerry
	}
	return r.Item
}

func dist(a, b knowledge.Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
