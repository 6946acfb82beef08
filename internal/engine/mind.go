// Package engine wires one Mind per creature: observation ingestion,
// outcome-driven belief repair, staggered memory maintenance, goal
// formulation and the decision tick, plus a population runner that fans
// minds out across goroutines. See design doc Section 5.
package engine

import (
	"log/slog"

	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/brains"
	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/planner"
	"github.com/talgya/wildmind/internal/schedule"
)

// Observation is one sensed world object this tick.
type Observation struct {
	Entity   knowledge.EntityID
	Concepts []knowledge.Concept // primary kind first
	Cell     knowledge.Cell
	Item     knowledge.Concept // stock observed inside the entity
	Qty      int
	HasStock bool
}

// OutcomeResult classifies how an attempted action ended.
type OutcomeResult uint8

const (
	OutcomeSucceeded OutcomeResult = iota
	OutcomeFailed
	OutcomeResourceDepleted
	OutcomeMissingItem
)

// OutcomeEvent is the world's report of an action result, the trigger for
// both episodic memory and belief repair.
type OutcomeEvent struct {
	Actor     knowledge.EntityID // zero means the owning creature itself
	Kind      knowledge.ActionKind
	Target    knowledge.EntityID
	Result    OutcomeResult
	Item      knowledge.Concept // gained or consumed stack
	Gained    int
	Consumed  int
	Emotion   knowledge.EmotionType
	Intensity float64
	Time      float64
}

// ChosenAction is a decision tick's output: what the body should attempt,
// with the provenance the journal wants.
type ChosenAction struct {
	Kind          knowledge.ActionKind
	Target        knowledge.Node
	Preconditions []knowledge.Pattern
	Effects       []knowledge.Pattern
	Source        brains.SourceKind
	Urgency       float64
	Score         float64
	Reason        string
}

// MindConfig collects per-mind tunables.
type MindConfig struct {
	Decay               knowledge.DecayConfig
	Consolidation       knowledge.ConsolidationConfig
	Planner             planner.Config
	HysteresisBonus     float64
	DecayInterval       uint64
	ConsolidateInterval uint64
}

func DefaultMindConfig() MindConfig {
	return MindConfig{
		Decay:               knowledge.DefaultDecayConfig(),
		Consolidation:       knowledge.DefaultConsolidationConfig(),
		Planner:             planner.DefaultConfig(),
		HysteresisBonus:     brains.DefaultHysteresisBonus,
		DecayInterval:       60,
		ConsolidateInterval: 120,
	}
}

// Mind is the complete cognition of one creature. Single-owner: only one
// goroutine may touch a Mind at a time; the runner guarantees this.
type Mind struct {
	id  knowledge.EntityID
	log *slog.Logger

	store   *knowledge.FactStore
	reflex  *brains.Reflex
	assoc   brains.Associative
	planned *brains.Planned
	arbiter *brains.Arbiter

	decaySweep  schedule.Stagger
	consolidate schedule.Stagger
	consCfg     knowledge.ConsolidationConfig

	visible   []knowledge.Node
	nextEvent knowledge.EventID
	decisions uint64
}

// NewMind builds a creature's cognition over the shared ontology.
func NewMind(id knowledge.EntityID, ont *knowledge.Ontology, cfg MindConfig, log *slog.Logger) *Mind {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("agent", uint64(id))
	return &Mind{
		id:          id,
		log:         log,
		store:       knowledge.NewFactStore(ont, cfg.Decay),
		reflex:      brains.NewReflex(),
		planned:     brains.NewPlanned(planner.New(cfg.Planner), log),
		arbiter:     brains.NewArbiter(cfg.HysteresisBonus),
		decaySweep:  schedule.NewStagger(cfg.DecayInterval),
		consolidate: schedule.NewStagger(cfg.ConsolidateInterval),
		consCfg:     cfg.Consolidation,
		nextEvent:   1,
	}
}

func (m *Mind) ID() knowledge.EntityID      { return m.id }
func (m *Mind) Store() *knowledge.FactStore { return m.store }
func (m *Mind) Replans() uint64             { return m.planned.Replans() }
func (m *Mind) Decisions() uint64           { return m.decisions }
func (m *Mind) Plan() *planner.Plan         { return m.planned.CurrentPlan() }

// ObserveSelf records the creature's own position.
func (m *Mind) ObserveSelf(now float64, cell knowledge.Cell) {
	m.assertOrLog(knowledge.Triple{
		Subject:   knowledge.Self,
		Predicate: knowledge.PredLocatedAt,
		Object:    knowledge.CellVal(cell),
		Meta:      knowledge.Perceived(now),
	})
}

// Observe ingests this tick's percepts. Kind memberships are kept as
// semantic memory (a bush stays a bush), while locations and stock levels
// are perception and fade fast. The visible set feeds the associative
// brain until the next Observe call.
func (m *Mind) Observe(now float64, obs []Observation) {
	m.visible = m.visible[:0]
	for _, o := range obs {
		n := knowledge.EntityNode(o.Entity)
		m.visible = append(m.visible, n)

		for _, c := range o.Concepts {
			m.assertOrLog(knowledge.Triple{
				Subject:   n,
				Predicate: knowledge.PredIsA,
				Object:    knowledge.ConceptVal(c),
				Meta: knowledge.Metadata{
					Source: knowledge.SourcePerception, Type: knowledge.MemorySemantic,
					Timestamp: now, Confidence: 1,
				},
			})
		}
		m.assertOrLog(knowledge.Triple{
			Subject:   n,
			Predicate: knowledge.PredLocatedAt,
			Object:    knowledge.CellVal(o.Cell),
			Meta:      knowledge.Perceived(now),
		})
		m.assertOrLog(knowledge.Triple{
			Subject:   n,
			Predicate: knowledge.PredLastObserved,
			Object:    knowledge.FloatVal(now),
			Meta:      knowledge.Perceived(now),
		})
		if o.HasStock {
			m.assertOrLog(knowledge.Triple{
				Subject:   n,
				Predicate: knowledge.PredContains,
				Object:    knowledge.ItemVal(o.Item, o.Qty),
				Meta:      knowledge.Perceived(now),
			})
		}
	}
}

// Hear ingests second-hand knowledge from another creature, stored at
// hearsay confidence with the informant on record.
func (m *Mind) Hear(now float64, informant knowledge.EntityID, s knowledge.Node, p knowledge.Predicate, o knowledge.Value) {
	m.assertOrLog(knowledge.Triple{
		Subject: s, Predicate: p, Object: o,
		Meta: knowledge.Hearsay(now, informant),
	})
}

// Ingest records an outcome event as episodic memory and repairs the
// beliefs it contradicts: inventory counts after gains and consumption, a
// zero-stock belief for depleted sources, a zero count for items that
// turned out to be missing.
func (m *Mind) Ingest(ev OutcomeEvent) {
	actor := knowledge.Self
	if ev.Actor != 0 && ev.Actor != m.id {
		actor = knowledge.EntityNode(ev.Actor)
	}
	var target knowledge.Node
	if ev.Target != 0 {
		target = knowledge.EntityNode(ev.Target)
	}

	id := m.nextEvent
	m.nextEvent++
	if err := knowledge.RecordEvent(m.store, knowledge.EpisodicEvent{
		ID: id, Actor: actor, Action: ev.Kind, Target: target,
		Result:  resultConcept(ev.Result),
		Emotion: ev.Emotion, Intensity: ev.Intensity, Time: ev.Time,
	}); err != nil {
		m.log.Warn("episodic record rejected", "err", err)
	}

	if actor != knowledge.Self {
		return
	}

	if ev.Gained > 0 {
		held := m.store.CountOf(knowledge.Self, ev.Item)
		m.setHeld(ev.Item, held+ev.Gained, ev.Time)
	}
	if ev.Consumed > 0 {
		held := m.store.CountOf(knowledge.Self, ev.Item) - ev.Consumed
		if held < 0 {
			held = 0
		}
		m.setHeld(ev.Item, held, ev.Time)
	}

	switch ev.Result {
	case OutcomeResourceDepleted:
		if target != (knowledge.Node{}) {
			m.assertOrLog(knowledge.Triple{
				Subject:   target,
				Predicate: knowledge.PredContains,
				Object:    knowledge.ItemVal(ev.Item, 0),
				Meta:      knowledge.Perceived(ev.Time),
			})
		}
	case OutcomeMissingItem:
		m.setHeld(ev.Item, 0, ev.Time)
	}
}

func (m *Mind) setHeld(c knowledge.Concept, qty int, now float64) {
	m.assertOrLog(knowledge.Triple{
		Subject:   knowledge.Self,
		Predicate: knowledge.PredContains,
		Object:    knowledge.ItemVal(c, qty),
		Meta:      knowledge.Perceived(now),
	})
}

// interoception lists the body scalars mirrored into the store each
// decision tick, so goal conditions and the planner price them as facts.
var interoception = []struct {
	pred knowledge.Predicate
	read func(body.Snapshot) float64
}{
	{knowledge.PredHunger, func(b body.Snapshot) float64 { return b.Hunger }},
	{knowledge.PredEnergy, func(b body.Snapshot) float64 { return b.Energy }},
	{knowledge.PredPain, func(b body.Snapshot) float64 { return b.Pain }},
	{knowledge.PredStress, func(b body.Snapshot) float64 { return b.Stress }},
}

func (m *Mind) perceiveBody(now float64, b body.Snapshot) {
	for _, f := range interoception {
		m.assertOrLog(knowledge.Triple{
			Subject:   knowledge.Self,
			Predicate: f.pred,
			Object:    knowledge.FloatVal(f.read(b)),
			Meta:      knowledge.Perceived(now),
		})
	}
}

// DecisionTick runs maintenance due this tick, forms the current goal,
// collects proposals from all three brains, and arbitrates. Always returns
// an action; Idle is the floor.
func (m *Mind) DecisionTick(tick uint64, now float64, b body.Snapshot) ChosenAction {
	m.perceiveBody(now, b)

	if m.decaySweep.Due(uint64(m.id), tick) {
		if removed := m.store.Decay(now); removed > 0 {
			m.log.Debug("memory decay", "removed", removed, "live", m.store.Len())
		}
	}
	if m.consolidate.Due(uint64(m.id), tick) {
		if written := knowledge.Consolidate(m.store, now, m.consCfg); written > 0 {
			m.log.Debug("consolidated beliefs", "written", written)
		}
	}

	bs := knowledge.NewBeliefState(m.store, now)
	goal := FormulateGoal(m.store, b)

	var proposals []brains.Proposal
	proposals = append(proposals, m.reflex.Propose(m.store, b)...)
	proposals = append(proposals, m.assoc.Propose(m.store, b, m.visible)...)
	proposals = append(proposals, m.planned.Propose(bs, b, goal)...)

	decision := m.arbiter.Choose(proposals, brains.ComputePowers(b))
	m.decisions++

	w := decision.Winner
	return ChosenAction{
		Kind:          w.Action.Kind,
		Target:        w.Action.Target,
		Preconditions: w.Action.Preconditions,
		Effects:       w.Action.Effects,
		Source:        w.Source,
		Urgency:       w.Urgency,
		Score:         decision.Score,
		Reason:        w.Reason,
	}
}

func (m *Mind) assertOrLog(t knowledge.Triple) {
	if err := m.store.Assert(t); err != nil {
		m.log.Warn("assert rejected", "triple", t.String(), "err", err)
	}
}

func resultConcept(r OutcomeResult) knowledge.Concept {
	if r == OutcomeSucceeded {
		return knowledge.ConceptSucceeded
	}
	return knowledge.ConceptFailed
}

// Goal formulation thresholds.
const (
	hungerGoalAt  = 50.0
	energyGoalAt  = 40.0
	foragePadding = 3 // berries to keep on hand when nothing is urgent
	forageBase    = 25.0
)

// FormulateGoal maps body urgencies to the single goal worth deliberating
// about: eat when hungry, rest when drained, otherwise keep the pouch
// stocked.
func FormulateGoal(st *knowledge.FactStore, b body.Snapshot) actions.Goal {
	if b.Hunger >= hungerGoalAt && b.Hunger >= (100-b.Energy) {
		return actions.Satiated(b.Hunger)
	}
	if b.Energy <= energyGoalAt {
		return actions.Rested(100 - b.Energy)
	}
	return actions.Stocked(knowledge.ConceptBerry, foragePadding, forageBase)
}
