package brains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/planner"
)

func forageWorld(t *testing.T) (*knowledge.FactStore, knowledge.Node) {
	t.Helper()
	s := newStore(t)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: knowledge.Self, Predicate: knowledge.PredLocatedAt,
		Object: knowledge.CellVal(knowledge.Cell{X: 0, Y: 0}),
		Meta:   knowledge.Perceived(0),
	}))
	bush := knowledge.EntityNode(1)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: bush, Predicate: knowledge.PredLocatedAt,
		Object: knowledge.CellVal(knowledge.Cell{X: 3, Y: 0}),
		Meta:   knowledge.Perceived(0),
	}))
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: bush, Predicate: knowledge.PredContains,
		Object: knowledge.ItemVal(knowledge.ConceptBerry, 4),
		Meta:   knowledge.Perceived(0),
	}))
	return s, bush
}

func alert() body.Snapshot { return body.Snapshot{Energy: 100, Alertness: 1} }

func TestPlannedProposesFirstStep(t *testing.T) {
	s, _ := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)
	goal := actions.Stocked(knowledge.ConceptBerry, 1, 55)

	ps := p.Propose(knowledge.NewBeliefState(s, 0), alert(), goal)
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionMoveTo, ps[0].Action.Kind)
	assert.InDelta(t, 55.0, ps[0].Urgency, 1e-9, "urgency follows goal priority")
	assert.Equal(t, uint64(0), p.Replans(), "first plan is not a replan")
}

func TestPlannedAdvancesWhenStepEffectsHold(t *testing.T) {
	s, bush := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)
	goal := actions.Stocked(knowledge.ConceptBerry, 1, 55)

	p.Propose(knowledge.NewBeliefState(s, 0), alert(), goal)

	// The world moved us to the bush; the MoveTo step is done.
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: knowledge.Self, Predicate: knowledge.PredLocatedAt,
		Object: knowledge.CellVal(knowledge.Cell{X: 3, Y: 0}),
		Meta:   knowledge.Perceived(1),
	}))

	ps := p.Propose(knowledge.NewBeliefState(s, 1), alert(), goal)
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionHarvest, ps[0].Action.Kind)
	assert.Equal(t, bush, ps[0].Action.Target)
	assert.Equal(t, uint64(0), p.Replans(), "advancing is not replanning")
}

func TestPlannedReplansOnViolatedPrecondition(t *testing.T) {
	s, bush := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)
	goal := actions.Stocked(knowledge.ConceptBerry, 1, 55)

	p.Propose(knowledge.NewBeliefState(s, 0), alert(), goal)

	// At the bush, but it turns out to be stripped bare.
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: knowledge.Self, Predicate: knowledge.PredLocatedAt,
		Object: knowledge.CellVal(knowledge.Cell{X: 3, Y: 0}),
		Meta:   knowledge.Perceived(1),
	}))
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: bush, Predicate: knowledge.PredContains,
		Object: knowledge.ItemVal(knowledge.ConceptBerry, 0),
		Meta:   knowledge.Perceived(1),
	}))

	ps := p.Propose(knowledge.NewBeliefState(s, 1), alert(), goal)
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionExplore, ps[0].Action.Kind,
		"no other source known: fall back to exploring")
	assert.InDelta(t, exploreUrgency, ps[0].Urgency, 1e-9)
	assert.Equal(t, uint64(1), p.Replans())
}

func TestPlannedSatisfiedGoalStaysQuiet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: knowledge.Self, Predicate: knowledge.PredContains,
		Object: knowledge.ItemVal(knowledge.ConceptBerry, 3),
		Meta:   knowledge.Perceived(0),
	}))
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)
	goal := actions.Stocked(knowledge.ConceptBerry, 1, 40)

	for tick := 0; tick < 10; tick++ {
		ps := p.Propose(knowledge.NewBeliefState(s, float64(tick)), alert(), goal)
		assert.Empty(t, ps)
	}
	assert.Equal(t, uint64(0), p.Replans(), "holding a satisfied goal is not replanning")

	// The pouch empties: the empty plan is stale and planning resumes.
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject: knowledge.Self, Predicate: knowledge.PredContains,
		Object: knowledge.ItemVal(knowledge.ConceptBerry, 0),
		Meta:   knowledge.Perceived(10),
	}))
	ps := p.Propose(knowledge.NewBeliefState(s, 10), alert(), goal)
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionExplore, ps[0].Action.Kind,
		"no source known: explore for one")
	assert.Equal(t, uint64(1), p.Replans(), "going stale costs exactly one replan")
}

func TestPlannedSilentBelowAlertnessGate(t *testing.T) {
	s, _ := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)

	ps := p.Propose(knowledge.NewBeliefState(s, 0), body.Snapshot{Energy: 100, Alertness: 0.2},
		actions.Stocked(knowledge.ConceptBerry, 1, 55))
	assert.Empty(t, ps)
}

func TestPlannedGoalChangeResetsPlan(t *testing.T) {
	s, _ := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)

	p.Propose(knowledge.NewBeliefState(s, 0), alert(), actions.Stocked(knowledge.ConceptBerry, 1, 55))
	ps := p.Propose(knowledge.NewBeliefState(s, 0), alert(), actions.Rested(70))

	// The energy goal plans straight to sleep.
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionSleep, ps[0].Action.Kind)
	assert.Equal(t, uint64(0), p.Replans(), "a new goal starts a new plan, not a replan")
}

func TestPlannedPriorityDriftKeepsPlan(t *testing.T) {
	s, _ := forageWorld(t)
	p := NewPlanned(planner.New(planner.DefaultConfig()), nil)

	first := p.Propose(knowledge.NewBeliefState(s, 0), alert(), actions.Stocked(knowledge.ConceptBerry, 1, 40))
	second := p.Propose(knowledge.NewBeliefState(s, 0), alert(), actions.Stocked(knowledge.ConceptBerry, 1, 70))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Action.Kind, second[0].Action.Kind)
	assert.InDelta(t, 70.0, second[0].Urgency, 1e-9, "priority refreshes without replanning")
	assert.Equal(t, uint64(0), p.Replans())
}
