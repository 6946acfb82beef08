package brains

import (
	"fmt"

	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
)

// Association reaction tuning: minimum intensity to react at all, and the
// urgency scale per emotion.
const (
	fearAssocMin  = 0.3
	joyAssocMin   = 0.3
	angerAssocMin = 0.5

	fearUrgencyScale  = 80.0
	joyUrgencyScale   = 50.0
	angerUrgencyScale = 60.0

	generalFearMin   = 0.7
	generalFearScale = 90.0

	attitudeActMin        = 0.4
	attitudeFleeScale     = 70.0
	attitudeApproachScale = 40.0
)

// Associative is the learned gut feeling: it matches visible entities
// against TriggersEmotion facts laid down by consolidation and reacts
// without planning. Stateless between ticks.
type Associative struct{}

// Propose reacts to each visible entity's strongest association, plus a
// generalized flight response when fear itself runs high regardless of
// what is in view.
func (Associative) Propose(st *knowledge.FactStore, b body.Snapshot, visible []knowledge.Node) []Proposal {
	var out []Proposal

	for _, e := range visible {
		out = append(out, attitudeReaction(st, e)...)

		emo, intensity, ok := strongestAssociation(st, e)
		if !ok {
			continue
		}
		switch emo {
		case knowledge.EmotionFear:
			if intensity >= fearAssocMin {
				out = append(out, Proposal{
					Action:  fleeFrom(e),
					Urgency: intensity * fearUrgencyScale,
					Source:  SourceAssociative,
					Reason:  fmt.Sprintf("%s smells of danger", e),
				})
			}
		case knowledge.EmotionJoy:
			if intensity >= joyAssocMin {
				if loc, ok := st.Get(e, knowledge.PredLocatedAt); ok && loc.Kind == knowledge.ValueCell {
					out = append(out, Proposal{
						Action:  approach(loc.Cell),
						Urgency: intensity * joyUrgencyScale,
						Source:  SourceAssociative,
						Reason:  fmt.Sprintf("drawn toward %s", e),
					})
				}
			}
		case knowledge.EmotionAnger:
			if intensity >= angerAssocMin {
				out = append(out, Proposal{
					Action: actions.Template{
						Kind: knowledge.ActionAttack, Target: e, Cost: actions.CostAttack,
					},
					Urgency: intensity * angerUrgencyScale,
					Source:  SourceAssociative,
					Reason:  fmt.Sprintf("old grudge against %s", e),
				})
			}
		}
	}

	if b.Fear > generalFearMin {
		out = append(out, Proposal{
			Action:  actions.Template{Kind: knowledge.ActionFlee, Cost: actions.CostFlee},
			Urgency: b.Fear * generalFearScale,
			Source:  SourceAssociative,
			Reason:  "diffuse dread",
		})
	}

	return out
}

// attitudeReaction grades the response to a creature with a consolidated
// AttitudeToward scalar: keep away from those it dislikes, drift toward
// those it likes. Mild attitudes below the action threshold stay opinions.
func attitudeReaction(st *knowledge.FactStore, e knowledge.Node) []Proposal {
	att, ok := st.Get(e, knowledge.PredAttitudeToward)
	if !ok || att.Kind != knowledge.ValueFloat {
		return nil
	}
	switch {
	case att.Float <= -attitudeActMin:
		return []Proposal{{
			Action:  fleeFrom(e),
			Urgency: -att.Float * attitudeFleeScale,
			Source:  SourceAssociative,
			Reason:  fmt.Sprintf("bad history with %s", e),
		}}
	case att.Float >= attitudeActMin:
		loc, ok := st.Get(e, knowledge.PredLocatedAt)
		if !ok || loc.Kind != knowledge.ValueCell {
			return nil
		}
		return []Proposal{{
			Action:  approach(loc.Cell),
			Urgency: att.Float * attitudeApproachScale,
			Source:  SourceAssociative,
			Reason:  fmt.Sprintf("good history with %s", e),
		}}
	}
	return nil
}

// strongestAssociation finds the most intense TriggersEmotion fact for the
// entity, checking the entity itself and then the concepts it is known to
// be an instance of.
func strongestAssociation(st *knowledge.FactStore, e knowledge.Node) (knowledge.EmotionType, float64, bool) {
	var best knowledge.EmotionType
	intensity := 0.0
	found := false

	consider := func(n knowledge.Node) {
		for _, t := range st.QueryPersonal(knowledge.SubjectPred(n, knowledge.PredTriggersEmotion)) {
			if t.Object.Kind != knowledge.ValueEmotion {
				continue
			}
			if t.Object.Intensity > intensity {
				best, intensity, found = t.Object.Emotion, t.Object.Intensity, true
			}
		}
	}

	consider(e)
	for _, t := range st.QueryPersonal(knowledge.SubjectPred(e, knowledge.PredIsA)) {
		if t.Object.Kind == knowledge.ValueConcept {
			consider(knowledge.ConceptNode(t.Object.Concept))
		}
	}
	return best, intensity, found
}

func fleeFrom(e knowledge.Node) actions.Template {
	return actions.Template{Kind: knowledge.ActionFlee, Target: e, Cost: actions.CostFlee}
}

func approach(c knowledge.Cell) actions.Template {
	return actions.Template{
		Kind:   knowledge.ActionMoveTo,
		Target: knowledge.CellNode(c),
		Effects: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredLocatedAt, knowledge.CellVal(c)),
		},
		Cost: actions.CostPerCell,
	}
}
