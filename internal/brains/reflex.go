package brains

import (
	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
)

// Reflex thresholds. Each rule has an enter threshold and a lower stay
// threshold, so a rule that has fired keeps firing until the signal drops
// well clear (hysteresis prevents flip-flopping at the boundary).
const (
	stressSnapEnter = 90.0
	stressSnapStay  = 70.0

	painFreezeEnter = 70.0
	painFreezeStay  = 50.0

	starveEatEnter = 80.0
	starveEatStay  = 60.0

	exhaustionEnter = 15.0 // energy below this forces sleep
	exhaustionStay  = 30.0
	wakeEnergy      = 90.0

	panicFearEnter = 0.8
	panicFearStay  = 0.5
)

// Reflex is the hard-wired survival layer: ordered threshold rules over
// the body snapshot, with per-rule hysteresis state. It reads the fact
// store only to check for food in the pouch; it never plans.
type Reflex struct {
	active map[string]bool
}

func NewReflex() *Reflex {
	return &Reflex{active: make(map[string]bool)}
}

// trip evaluates one hysteresis rule: fire at enter, keep firing until the
// signal drops below stay.
func (r *Reflex) trip(name string, signal, enter, stay float64) bool {
	threshold := enter
	if r.active[name] {
		threshold = stay
	}
	fired := signal >= threshold
	r.active[name] = fired
	return fired
}

// tripLow is trip for signals where low is bad (energy).
func (r *Reflex) tripLow(name string, signal, enter, stay float64) bool {
	threshold := enter
	if r.active[name] {
		threshold = stay
	}
	fired := signal <= threshold
	r.active[name] = fired
	return fired
}

// Propose runs the rules in priority order and returns every one that
// fires. Arbitration picks the winner; the reflex brain itself does not
// rank beyond its urgency numbers.
func (r *Reflex) Propose(st *knowledge.FactStore, b body.Snapshot) []Proposal {
	var out []Proposal

	// Sleep management comes first: an asleep creature either wakes
	// recharged or keeps sleeping, and nothing else fires.
	if b.Asleep {
		if b.Energy >= wakeEnergy {
			out = append(out, Proposal{
				Action:  actions.Template{Kind: knowledge.ActionWakeUp},
				Urgency: 95, Source: SourceReflex, Reason: "rested, waking",
			})
		} else {
			out = append(out, Proposal{
				Action:  sleepTemplate(),
				Urgency: 85, Source: SourceReflex, Reason: "still exhausted, sleeping on",
			})
		}
		return out
	}

	if r.trip("stress-snap", b.Stress, stressSnapEnter, stressSnapStay) {
		out = append(out, r.snapProposal(st, b))
	}

	if r.trip("pain-freeze", b.Pain, painFreezeEnter, painFreezeStay) {
		out = append(out, Proposal{
			Action:  actions.Idle(),
			Urgency: 90, Source: SourceReflex, Reason: "immobilized by pain",
		})
	}

	if r.trip("starve-eat", b.Hunger, starveEatEnter, starveEatStay) {
		if food, ok := heldFood(st); ok {
			out = append(out, Proposal{
				Action:  eatTemplate(food),
				Urgency: 85, Source: SourceReflex, Reason: "starving with food in pouch",
			})
		}
	}

	if r.tripLow("exhaustion", b.Energy, exhaustionEnter, exhaustionStay) {
		out = append(out, Proposal{
			Action:  sleepTemplate(),
			Urgency: 80, Source: SourceReflex, Reason: "collapsing from exhaustion",
		})
	}

	if r.trip("panic-fear", b.Fear, panicFearEnter, panicFearStay) {
		out = append(out, Proposal{
			Action:  actions.Template{Kind: knowledge.ActionFlee, Cost: actions.CostFlee},
			Urgency: 90, Source: SourceReflex, Reason: "overwhelming fear",
		})
	}

	return out
}

// snapProposal is the stress-overload response: the creature stops
// arbitrating subtleties and does the bluntest useful thing.
func (r *Reflex) snapProposal(st *knowledge.FactStore, b body.Snapshot) Proposal {
	switch {
	case b.Hunger >= starveEatStay:
		if food, ok := heldFood(st); ok {
			return Proposal{Action: eatTemplate(food), Urgency: 95, Source: SourceReflex, Reason: "stress snap: cram food"}
		}
		return Proposal{
			Action:  actions.Template{Kind: knowledge.ActionWander, Cost: actions.CostWander},
			Urgency: 95, Source: SourceReflex, Reason: "stress snap: desperate search",
		}
	case b.Energy <= exhaustionStay:
		return Proposal{Action: sleepTemplate(), Urgency: 95, Source: SourceReflex, Reason: "stress snap: collapse"}
	default:
		return Proposal{
			Action:  actions.Template{Kind: knowledge.ActionFlee, Cost: actions.CostFlee},
			Urgency: 95, Source: SourceReflex, Reason: "stress snap: hide",
		}
	}
}

// heldFood returns the first food concept the creature holds.
func heldFood(st *knowledge.FactStore) (knowledge.Concept, bool) {
	for _, c := range st.Ontology().Kinds(knowledge.ConceptFood) {
		if st.CountOf(knowledge.Self, c) > 0 {
			return c, true
		}
	}
	return 0, false
}

func eatTemplate(c knowledge.Concept) actions.Template {
	return actions.Template{
		Kind:   knowledge.ActionEat,
		Target: knowledge.ConceptNode(c),
		Preconditions: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredContains, knowledge.ItemVal(c, 1)),
		},
		Effects: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredHunger, knowledge.FloatVal(0)),
		},
		Cost: actions.CostEat,
	}
}

func sleepTemplate() actions.Template {
	return actions.Template{
		Kind: knowledge.ActionSleep,
		Effects: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredEnergy, knowledge.FloatVal(100)),
		},
		Cost: actions.CostSleep,
	}
}
