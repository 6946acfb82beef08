package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndReadEvents(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(20)

	require.NoError(t, RecordEvent(s, EpisodicEvent{
		ID: 2, Actor: wolf, Action: ActionAttack, Target: Self,
		Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.6, Time: 50,
	}))
	require.NoError(t, RecordEvent(s, EpisodicEvent{
		ID: 1, Actor: Self, Action: ActionEat, Target: ConceptNode(ConceptBerry),
		Result: ConceptSucceeded, Emotion: EmotionJoy, Intensity: 0.4, Time: 10,
	}))

	events := Events(s)
	require.Len(t, events, 2)
	assert.Equal(t, EventID(1), events[0].ID, "oldest first")
	assert.Equal(t, wolf, events[1].Actor)
	assert.Equal(t, EmotionFear, events[1].Emotion)
	assert.InDelta(t, 0.6, events[1].Intensity, 1e-9)
}

func TestConsolidateHostileFromRepeatedAttacks(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(20)
	now := 100.0

	for i := 0; i < 2; i++ {
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 1), Actor: wolf, Action: ActionAttack, Target: Self,
			Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.5, Time: now,
		}))
	}

	written := Consolidate(s, now, DefaultConsolidationConfig())
	assert.Greater(t, written, 0)

	matches := s.QueryPersonal(Exact(wolf, PredHasTrait, ConceptVal(ConceptHostile)))
	require.Len(t, matches, 1)
	belief := matches[0]

	// Two fresh events, each weight (0.2+0.5*0.8)*(0.3+0.7) = 0.6, fear
	// valence -1: confidence = 1.0 * min(1, 1.2/2) = 0.6.
	assert.InDelta(t, 0.6, belief.Meta.Confidence, 1e-6)
	assert.Equal(t, SourceInferred, belief.Meta.Source)
	assert.Equal(t, MemorySemantic, belief.Meta.Type)
	assert.ElementsMatch(t, []EventID{1, 2}, belief.Meta.Evidence)
}

func TestConsolidateSingleMildEventInsufficient(t *testing.T) {
	s := newTestStore(t)
	deer := EntityNode(21)

	require.NoError(t, RecordEvent(s, EpisodicEvent{
		ID: 1, Actor: deer, Action: ActionMoveTo, Target: Self,
		Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.4, Time: 0,
	}))

	Consolidate(s, 0, DefaultConsolidationConfig())
	assert.Empty(t, s.QueryPersonal(Exact(deer, PredHasTrait, ConceptVal(ConceptHostile))))
}

func TestConsolidateOneShotLearning(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(22)

	// A single overwhelming event bypasses the repetition requirement.
	require.NoError(t, RecordEvent(s, EpisodicEvent{
		ID: 1, Actor: wolf, Action: ActionAttack, Target: Self,
		Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.9, Time: 0,
	}))

	Consolidate(s, 0, DefaultConsolidationConfig())

	matches := s.QueryPersonal(Exact(wolf, PredHasTrait, ConceptVal(ConceptHostile)))
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.9, matches[0].Meta.Confidence, 1e-9, "one-shot confidence equals intensity")
}

func TestConsolidateAttitudeScalarTracksTrait(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(26)
	friend := EntityNode(27)
	now := 100.0

	for i := 0; i < 2; i++ {
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 1), Actor: wolf, Action: ActionAttack, Target: Self,
			Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.5, Time: now,
		}))
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 3), Actor: friend, Action: ActionMoveTo, Target: Self,
			Result: ConceptSucceeded, Emotion: EmotionJoy, Intensity: 0.5, Time: now,
		}))
	}

	Consolidate(s, now, DefaultConsolidationConfig())

	// Same evidence strength as the trait belief: confidence 0.6, signed
	// negative toward the hostile, positive toward the friendly.
	att, ok := s.Get(wolf, PredAttitudeToward)
	require.True(t, ok)
	assert.InDelta(t, -0.6, att.Float, 1e-6)

	att, ok = s.Get(friend, PredAttitudeToward)
	require.True(t, ok)
	assert.InDelta(t, 0.6, att.Float, 1e-6)
}

func TestConsolidateAffordanceBelief(t *testing.T) {
	s := newTestStore(t)
	bush := EntityNode(23)
	require.NoError(t, s.Assert(Triple{
		Subject: bush, Predicate: PredIsA, Object: ConceptVal(ConceptBerryBush),
		Meta: Perceived(0),
	}))
	for i := 0; i < 3; i++ {
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 1), Actor: Self, Action: ActionHarvest, Target: bush,
			Result: ConceptSucceeded, Emotion: EmotionJoy, Intensity: 0.5, Time: 0,
		}))
	}

	Consolidate(s, 0, DefaultConsolidationConfig())

	matches := s.QueryPersonal(Exact(ConceptNode(ConceptBerryBush), PredHasTrait, ConceptVal(ConceptHarvestable)))
	require.Len(t, matches, 1)
	assert.Greater(t, matches[0].Meta.Confidence, 0.4)
}

func TestConsolidateEmotionalAssociation(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(24)
	for i := 0; i < 2; i++ {
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 1), Actor: wolf, Action: ActionAttack, Target: Self,
			Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.7, Time: 0,
		}))
	}

	Consolidate(s, 0, DefaultConsolidationConfig())

	matches := s.QueryPersonal(SubjectPred(wolf, PredTriggersEmotion))
	require.Len(t, matches, 1)
	assert.Equal(t, EmotionFear, matches[0].Object.Emotion)
	assert.InDelta(t, 0.7, matches[0].Object.Intensity, 1e-6)
}

func TestConsolidateIdempotentAcrossRuns(t *testing.T) {
	s := newTestStore(t)
	wolf := EntityNode(25)
	for i := 0; i < 2; i++ {
		require.NoError(t, RecordEvent(s, EpisodicEvent{
			ID: EventID(i + 1), Actor: wolf, Action: ActionAttack, Target: Self,
			Result: ConceptSucceeded, Emotion: EmotionFear, Intensity: 0.5, Time: 0,
		}))
	}

	Consolidate(s, 0, DefaultConsolidationConfig())
	Consolidate(s, 0, DefaultConsolidationConfig())

	// Re-running refreshes the belief in place rather than duplicating it.
	assert.Len(t, s.QueryPersonal(Exact(wolf, PredHasTrait, ConceptVal(ConceptHostile))), 1)
}
