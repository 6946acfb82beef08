package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/brains"
	"github.com/talgya/wildmind/internal/knowledge"
)

func newMind(t *testing.T, id knowledge.EntityID) *Mind {
	t.Helper()
	return NewMind(id, knowledge.DefaultOntology(), DefaultMindConfig(), nil)
}

func TestObserveRecordsPercepts(t *testing.T) {
	m := newMind(t, 1)
	m.ObserveSelf(5, knowledge.Cell{X: 1, Y: 1})
	m.Observe(5, []Observation{{
		Entity:   42,
		Concepts: []knowledge.Concept{knowledge.ConceptBerryBush},
		Cell:     knowledge.Cell{X: 3, Y: 1},
		Item:     knowledge.ConceptBerry,
		Qty:      4,
		HasStock: true,
	}})

	s := m.Store()
	bush := knowledge.EntityNode(42)
	assert.True(t, s.IsA(bush, knowledge.ConceptPlant), "kind membership flows through the ontology")
	loc, ok := s.Get(bush, knowledge.PredLocatedAt)
	require.True(t, ok)
	assert.Equal(t, knowledge.Cell{X: 3, Y: 1}, loc.Cell)
	assert.Equal(t, 4, s.CountOf(bush, knowledge.ConceptBerry))
}

func TestIngestRepairsInventory(t *testing.T) {
	m := newMind(t, 1)

	m.Ingest(OutcomeEvent{
		Kind: knowledge.ActionHarvest, Target: 42, Result: OutcomeSucceeded,
		Item: knowledge.ConceptBerry, Gained: 3,
		Emotion: knowledge.EmotionJoy, Intensity: 0.3, Time: 10,
	})
	assert.Equal(t, 3, m.Store().CountOf(knowledge.Self, knowledge.ConceptBerry))

	m.Ingest(OutcomeEvent{
		Kind: knowledge.ActionEat, Result: OutcomeSucceeded,
		Item: knowledge.ConceptBerry, Consumed: 1,
		Emotion: knowledge.EmotionJoy, Intensity: 0.4, Time: 11,
	})
	assert.Equal(t, 2, m.Store().CountOf(knowledge.Self, knowledge.ConceptBerry))
}

func TestIngestDepletedSourceZeroesStock(t *testing.T) {
	m := newMind(t, 1)
	bush := knowledge.EntityNode(42)
	m.Observe(0, []Observation{{
		Entity: 42, Concepts: []knowledge.Concept{knowledge.ConceptBerryBush},
		Cell: knowledge.Cell{X: 2, Y: 0}, Item: knowledge.ConceptBerry, Qty: 1, HasStock: true,
	}})

	m.Ingest(OutcomeEvent{
		Kind: knowledge.ActionHarvest, Target: 42, Result: OutcomeResourceDepleted,
		Item: knowledge.ConceptBerry,
		Emotion: knowledge.EmotionSadness, Intensity: 0.2, Time: 5,
	})

	matches := m.Store().QueryPersonal(knowledge.SubjectPred(bush, knowledge.PredContains))
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Object.Qty, "depletion leaves a zero-stock record, not nothing")
}

func TestIngestMissingItemZeroesOwnCount(t *testing.T) {
	m := newMind(t, 1)
	m.Ingest(OutcomeEvent{
		Kind: knowledge.ActionHarvest, Target: 42, Result: OutcomeSucceeded,
		Item: knowledge.ConceptBerry, Gained: 2,
		Emotion: knowledge.EmotionJoy, Intensity: 0.3, Time: 1,
	})
	m.Ingest(OutcomeEvent{
		Kind: knowledge.ActionEat, Result: OutcomeMissingItem,
		Item: knowledge.ConceptBerry,
		Emotion: knowledge.EmotionSurprise, Intensity: 0.4, Time: 2,
	})
	assert.Equal(t, 0, m.Store().CountOf(knowledge.Self, knowledge.ConceptBerry))
}

func TestHearStoresHearsayWithInformant(t *testing.T) {
	m := newMind(t, 1)
	bush := knowledge.EntityNode(42)
	m.Hear(10, 7, bush, knowledge.PredLocatedAt, knowledge.CellVal(knowledge.Cell{X: 9, Y: 9}))

	tr, ok := m.Store().GetTriple(bush, knowledge.PredLocatedAt)
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceHearsay, tr.Meta.Source)
	assert.InDelta(t, 0.7, tr.Meta.Confidence, 1e-9)
	assert.Equal(t, knowledge.EntityID(7), tr.Meta.Informant)

	// Seeing it for yourself overrides the rumor.
	m.Observe(11, []Observation{{
		Entity: 42, Concepts: []knowledge.Concept{knowledge.ConceptBerryBush},
		Cell: knowledge.Cell{X: 4, Y: 4},
	}})
	tr, ok = m.Store().GetTriple(bush, knowledge.PredLocatedAt)
	require.True(t, ok)
	assert.Equal(t, knowledge.SourcePerception, tr.Meta.Source)
	assert.Equal(t, knowledge.Cell{X: 4, Y: 4}, tr.Object.Cell)
}

func TestFormulateGoalMapping(t *testing.T) {
	s := knowledge.NewFactStore(knowledge.DefaultOntology(), knowledge.DefaultDecayConfig())

	g := FormulateGoal(s, body.Snapshot{Hunger: 80, Energy: 100})
	assert.Equal(t, "satiated", g.Name)
	assert.InDelta(t, 80.0, g.Priority, 1e-9)

	g = FormulateGoal(s, body.Snapshot{Hunger: 20, Energy: 30})
	assert.Equal(t, "rested", g.Name)
	assert.InDelta(t, 70.0, g.Priority, 1e-9)

	g = FormulateGoal(s, body.Snapshot{Hunger: 20, Energy: 90})
	assert.Equal(t, "stocked-Berry", g.Name)
}

func TestDecisionTickAlwaysActs(t *testing.T) {
	m := newMind(t, 1)
	act := m.DecisionTick(0, 0, body.Snapshot{Hunger: 10, Energy: 90, Alertness: 1})
	// Nothing is known about the world: planning fails, explore fallback.
	assert.Equal(t, knowledge.ActionExplore, act.Kind)
	assert.Equal(t, brains.SourcePlanned, act.Source)
}

func TestDecisionTickMirrorsBodyScalars(t *testing.T) {
	m := newMind(t, 1)
	m.DecisionTick(0, 0, body.Snapshot{Hunger: 35, Energy: 80, Pain: 12, Stress: 6, Alertness: 1})

	s := m.Store()
	for _, want := range []struct {
		pred  knowledge.Predicate
		value float64
	}{
		{knowledge.PredHunger, 35},
		{knowledge.PredEnergy, 80},
		{knowledge.PredPain, 12},
		{knowledge.PredStress, 6},
	} {
		v, ok := s.Get(knowledge.Self, want.pred)
		require.True(t, ok, "missing %s", want.pred)
		assert.InDelta(t, want.value, v.Float, 1e-9)
	}

	// The next tick replaces, never accumulates.
	m.DecisionTick(1, 1, body.Snapshot{Hunger: 40, Energy: 78, Alertness: 1})
	matches := s.QueryPersonal(knowledge.SubjectPred(knowledge.Self, knowledge.PredHunger))
	require.Len(t, matches, 1)
	assert.InDelta(t, 40.0, matches[0].Object.Float, 1e-9)
}

func TestDecisionTickReflexBeatsGroggyPlanner(t *testing.T) {
	m := newMind(t, 1)
	act := m.DecisionTick(0, 0, body.Snapshot{Hunger: 10, Energy: 10, Alertness: 0.1})
	assert.Equal(t, knowledge.ActionSleep, act.Kind)
	assert.Equal(t, brains.SourceReflex, act.Source)
}
