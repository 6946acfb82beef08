package brains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
)

func associate(t *testing.T, s *knowledge.FactStore, n knowledge.Node, e knowledge.EmotionType, intensity float64) {
	t.Helper()
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   n,
		Predicate: knowledge.PredTriggersEmotion,
		Object:    knowledge.EmotionVal(e, intensity),
		Meta:      knowledge.Inferred(0, intensity, nil),
	}))
}

func TestFearAssociationProposesFlee(t *testing.T) {
	s := newStore(t)
	wolf := knowledge.EntityNode(1)
	associate(t, s, wolf, knowledge.EmotionFear, 0.6)

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{wolf})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionFlee, ps[0].Action.Kind)
	assert.Equal(t, wolf, ps[0].Action.Target)
	assert.InDelta(t, 0.6*fearUrgencyScale, ps[0].Urgency, 1e-9)
}

func TestWeakAssociationIgnored(t *testing.T) {
	s := newStore(t)
	deer := knowledge.EntityNode(2)
	associate(t, s, deer, knowledge.EmotionFear, 0.2)

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{deer})
	assert.Empty(t, ps)
}

func TestAngerAssociationProposesAttack(t *testing.T) {
	s := newStore(t)
	rival := knowledge.EntityNode(3)
	associate(t, s, rival, knowledge.EmotionAnger, 0.8)

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{rival})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionAttack, ps[0].Action.Kind)
	assert.InDelta(t, 0.8*angerUrgencyScale, ps[0].Urgency, 1e-9)
}

func TestJoyAssociationApproachesKnownLocation(t *testing.T) {
	s := newStore(t)
	friend := knowledge.EntityNode(4)
	associate(t, s, friend, knowledge.EmotionJoy, 0.5)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   friend,
		Predicate: knowledge.PredLocatedAt,
		Object:    knowledge.CellVal(knowledge.Cell{X: 3, Y: 3}),
		Meta:      knowledge.Perceived(0),
	}))

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{friend})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionMoveTo, ps[0].Action.Kind)
}

func TestConceptLevelAssociationGeneralizes(t *testing.T) {
	s := newStore(t)
	// Fear learned about deer in general applies to a never-met deer.
	associate(t, s, knowledge.ConceptNode(knowledge.ConceptDeer), knowledge.EmotionFear, 0.5)
	stranger := knowledge.EntityNode(9)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   stranger,
		Predicate: knowledge.PredIsA,
		Object:    knowledge.ConceptVal(knowledge.ConceptDeer),
		Meta:      knowledge.Perceived(0),
	}))

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{stranger})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionFlee, ps[0].Action.Kind)
}

func holdAttitude(t *testing.T, s *knowledge.FactStore, n knowledge.Node, att float64) {
	t.Helper()
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   n,
		Predicate: knowledge.PredAttitudeToward,
		Object:    knowledge.FloatVal(att),
		Meta:      knowledge.Inferred(0, 0.6, nil),
	}))
}

func TestNegativeAttitudeProposesFlee(t *testing.T) {
	s := newStore(t)
	wolf := knowledge.EntityNode(5)
	holdAttitude(t, s, wolf, -0.6)

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{wolf})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionFlee, ps[0].Action.Kind)
	assert.Equal(t, wolf, ps[0].Action.Target)
	assert.InDelta(t, 0.6*attitudeFleeScale, ps[0].Urgency, 1e-9)
}

func TestPositiveAttitudeApproachesKnownLocation(t *testing.T) {
	s := newStore(t)
	friend := knowledge.EntityNode(6)
	holdAttitude(t, s, friend, 0.7)
	require.NoError(t, s.Assert(knowledge.Triple{
		Subject:   friend,
		Predicate: knowledge.PredLocatedAt,
		Object:    knowledge.CellVal(knowledge.Cell{X: 2, Y: 5}),
		Meta:      knowledge.Perceived(0),
	}))

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{friend})
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionMoveTo, ps[0].Action.Kind)
	assert.InDelta(t, 0.7*attitudeApproachScale, ps[0].Urgency, 1e-9)
}

func TestMildAttitudeStaysAnOpinion(t *testing.T) {
	s := newStore(t)
	neighbor := knowledge.EntityNode(7)
	holdAttitude(t, s, neighbor, -0.3)

	ps := Associative{}.Propose(s, body.Snapshot{}, []knowledge.Node{neighbor})
	assert.Empty(t, ps)
}

func TestGeneralizedFearWithoutTarget(t *testing.T) {
	s := newStore(t)
	ps := Associative{}.Propose(s, body.Snapshot{Fear: 0.9}, nil)
	require.Len(t, ps, 1)
	assert.Equal(t, knowledge.ActionFlee, ps[0].Action.Kind)
	assert.InDelta(t, 0.9*generalFearScale, ps[0].Urgency, 1e-9)
}
