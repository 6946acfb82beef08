package brains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
)

func newStore(t *testing.T) *knowledge.FactStore {
	t.Helper()
	return knowledge.NewFactStore(knowledge.DefaultOntology(), knowledge.DefaultDecayConfig())
}

func giveBerries(t *testing.T, s *knowledge.FactStore, n int) {
	t.Helper()
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   knowledge.Self,
		Predicate: knowledge.PredContains,
		Object:    knowledge.ItemVal(knowledge.ConceptBerry, n),
		Meta:      knowledge.Perceived(0),
	}))
}

func hasKind(ps []Proposal, k knowledge.ActionKind) bool {
	for _, p := range ps {
		if p.Action.Kind == k {
			return true
		}
	}
	return false
}

func TestStarvationEatHysteresis(t *testing.T) {
	s := newStore(t)
	giveBerries(t, s, 3)
	r := NewReflex()

	// Below the enter threshold: silent.
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Hunger: 75, Energy: 80}), knowledge.ActionEat))

	// Crosses enter at 80.
	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Hunger: 85, Energy: 80}), knowledge.ActionEat))

	// Drops to 70: still above stay (60), keeps firing.
	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Hunger: 70, Energy: 80}), knowledge.ActionEat))

	// Drops below stay: disengages.
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Hunger: 55, Energy: 80}), knowledge.ActionEat))

	// Back to 70: must not re-fire below the enter threshold.
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Hunger: 70, Energy: 80}), knowledge.ActionEat))
}

func TestStarvationNeedsFoodInPouch(t *testing.T) {
	s := newStore(t)
	r := NewReflex()
	ps := r.Propose(s, body.Snapshot{Hunger: 95, Energy: 80})
	assert.False(t, hasKind(ps, knowledge.ActionEat), "cannot reflex-eat without food")
}

func TestExhaustionSleepHysteresis(t *testing.T) {
	s := newStore(t)
	r := NewReflex()

	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Energy: 10}), knowledge.ActionSleep))
	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Energy: 25}), knowledge.ActionSleep), "stays engaged up to 30")
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Energy: 35}), knowledge.ActionSleep))
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Energy: 20}), knowledge.ActionSleep), "re-entry needs 15")
}

func TestSleepingCreatureOnlySleepsOrWakes(t *testing.T) {
	s := newStore(t)
	r := NewReflex()

	ps := r.Propose(s, body.Snapshot{Asleep: true, Energy: 50, Hunger: 95})
	require.Len(t, ps, 1, "no other reflex fires while asleep")
	assert.Equal(t, knowledge.ActionSleep, ps[0].Action.Kind)

	ps = r.Propose(s, body.Snapshot{Asleep: true, Energy: 95})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionWakeUp, ps[0].Action.Kind)
}

func TestPanicFearHysteresis(t *testing.T) {
	s := newStore(t)
	r := NewReflex()

	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Fear: 0.7, Energy: 80}), knowledge.ActionFlee))
	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Fear: 0.85, Energy: 80}), knowledge.ActionFlee))
	assert.True(t, hasKind(r.Propose(s, body.Snapshot{Fear: 0.6, Energy: 80}), knowledge.ActionFlee))
	assert.False(t, hasKind(r.Propose(s, body.Snapshot{Fear: 0.4, Energy: 80}), knowledge.ActionFlee))
}

func TestStressSnapPicksBluntResponse(t *testing.T) {
	s := newStore(t)
	giveBerries(t, s, 1)
	r := NewReflex()

	ps := r.Propose(s, body.Snapshot{Stress: 95, Hunger: 85, Energy: 80})
	require.NotEmpty(t, ps)
	assert.Equal(t, knowledge.ActionEat, ps[0].Action.Kind, "stressed and starving with food: cram it")
	assert.InDelta(t, 95.0, ps[0].Urgency, 1e-9)

	r2 := NewReflex()
	ps = r2.Propose(newStore(t), body.Snapshot{Stress: 95, Hunger: 85, Energy: 80})
	require.NotEmpty(t, ps)
	assert.Equal(t, knowledge.ActionWander, ps[0].Action.Kind, "no food: desperate search")

	r3 := NewReflex()
	ps = r3.Propose(newStore(t), body.Snapshot{Stress: 95, Hunger: 20, Energy: 80})
	require.NotEmpty(t, ps)
	assert.Equal(t, knowledge.ActionFlee, ps[0].Action.Kind, "otherwise: hide")
}
